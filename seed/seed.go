// Package seed loads demo chefs, customers, a catalog and a few orders into
// an empty database.
package seed

import (
	"fmt"
	"log"

	"panela-api/models"
	"panela-api/pricing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "123456"

type chefSeed struct {
	email    string
	kitchen  string
	bio      string
	cuisines []string
}

var chefs = []chefSeed{
	{"maria@chef.com", "Cozinha da Maria", "Especialista em culinária brasileira com 15 anos de experiência.", []string{"Brasileira", "Regional"}},
	{"joao@chef.com", "Cantina do João", "Chef italiano com paixão por massas artesanais e molhos tradicionais.", []string{"Italiana", "Massas"}},
	{"ana@chef.com", "Ana Vegan Kitchen", "Culinária oriental e vegana com ingredientes orgânicos e sazonais.", []string{"Oriental", "Vegana"}},
}

type dishSeed struct {
	chef        int
	name        string
	description string
	ingredients []string
	price       string
	prep        int
}

var dishes = []dishSeed{
	{0, "Feijoada Completa", "Feijoada tradicional com arroz, couve, farofa e laranja. Serve 2 pessoas.", []string{"Feijão preto", "Linguiça", "Costelinha", "Bacon", "Couve", "Laranja"}, "65.00", 180},
	{0, "Moqueca de Peixe", "Moqueca capixaba com peixe fresco, leite de coco e dendê. Serve 2 pessoas.", []string{"Peixe", "Leite de coco", "Dendê", "Pimentão", "Tomate", "Coentro"}, "72.00", 120},
	{1, "Lasanha Bolonhesa", "Lasanha artesanal com molho bolonhesa e bechamel. Serve 3 pessoas.", []string{"Massa fresca", "Carne moída", "Molho de tomate", "Bechamel", "Queijo"}, "58.00", 90},
	{1, "Risoto de Funghi", "Risoto cremoso com mix de cogumelos e parmesão. Serve 2 pessoas.", []string{"Arroz arbóreo", "Cogumelos", "Parmesão", "Vinho branco", "Manteiga"}, "48.00", 60},
	{2, "Yakisoba Vegano", "Yakisoba com legumes frescos e molho shoyu. Serve 2 pessoas.", []string{"Macarrão", "Brócolis", "Cenoura", "Repolho", "Shoyu", "Gengibre"}, "38.00", 45},
}

type categorySeed struct {
	name     string
	min, max int
	items    map[string]string
}

// plate menu of the first chef
var plateMenu = []categorySeed{
	{"Proteínas", 1, 1, map[string]string{"Frango Grelhado": "18.00", "Picanha": "28.00", "Salmão": "32.00", "Tofu": "15.00"}},
	{"Acompanhamentos", 1, 2, map[string]string{"Arroz Branco": "5.00", "Feijão Tropeiro": "8.00", "Batata Frita": "7.00", "Salada Verde": "6.00"}},
	{"Molhos", 0, 1, map[string]string{"Molho de Ervas": "3.00", "Molho BBQ": "4.00", "Molho de Alho": "3.00"}},
}

// Run fills an empty database with demo data. It does nothing when any
// user already exists.
func Run(db *gorm.DB) error {
	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		log.Printf("[seed] %d users present, skipping", users)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		admin := models.User{Email: "admin@panela.com", PasswordHash: string(hash), Role: models.RoleAdmin}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		chefRows := make([]models.Chef, len(chefs))
		for i, s := range chefs {
			chefRows[i] = models.Chef{
				User:         &models.User{Email: s.email, PasswordHash: string(hash), Role: models.RoleChef},
				KitchenName:  s.kitchen,
				Bio:          s.bio,
				CuisineTypes: datatypes.JSONSlice[string](s.cuisines),
				Location:     "São Paulo, SP",
				Approved:     true,
			}
			if err := tx.Create(&chefRows[i]).Error; err != nil {
				return fmt.Errorf("chef %s: %w", s.email, err)
			}
		}

		customers := []models.Customer{
			{User: &models.User{Email: "carlos@cliente.com", PasswordHash: string(hash), Role: models.RoleCustomer}, DefaultAddress: "Rua dos Pinheiros, 200 - São Paulo, SP"},
			{User: &models.User{Email: "lucia@cliente.com", PasswordHash: string(hash), Role: models.RoleCustomer}, DefaultAddress: "Alameda Santos, 300 - São Paulo, SP"},
		}
		for i := range customers {
			if err := tx.Create(&customers[i]).Error; err != nil {
				return err
			}
		}

		dishRows := make([]models.Dish, len(dishes))
		for i, s := range dishes {
			prep := s.prep
			dishRows[i] = models.Dish{
				ChefID:      chefRows[s.chef].ID,
				Type:        models.DishReady,
				Name:        s.name,
				Description: s.description,
				Ingredients: datatypes.JSONSlice[string](s.ingredients),
				Price:       decimal.RequireFromString(s.price),
				PrepMinutes: &prep,
			}
			if err := tx.Create(&dishRows[i]).Error; err != nil {
				return err
			}
		}

		for _, s := range plateMenu {
			category := models.MenuCategory{ChefID: chefRows[0].ID, Name: s.name, MinSelect: s.min, MaxSelect: s.max}
			for name, price := range s.items {
				category.Items = append(category.Items, models.MenuItem{Name: name, Price: decimal.RequireFromString(price)})
			}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
		}

		sampleOrders := []struct {
			customer models.Customer
			chef     models.Chef
			dishes   []models.Dish
			fee      string
			status   models.OrderStatus
		}{
			{customers[0], chefRows[0], dishRows[0:1], "8.00", models.StatusCompleted},
			{customers[1], chefRows[1], dishRows[2:4], "10.00", models.StatusPreparing},
		}
		for _, s := range sampleOrders {
			if err := tx.Create(sampleOrder(s.customer, s.chef, s.dishes, s.fee, s.status)).Error; err != nil {
				return err
			}
		}

		ratings := []models.Rating{
			{CustomerID: customers[0].ID, ChefID: chefRows[0].ID, Stars: 5, Comment: "Feijoada deliciosa! Sabor autêntico e entrega rápida."},
			{CustomerID: customers[1].ID, ChefID: chefRows[1].ID, Stars: 5, Comment: "Melhor lasanha que já comi!"},
			{CustomerID: customers[0].ID, ChefID: chefRows[2].ID, Stars: 4, Comment: "Yakisoba muito saboroso e saudável."},
		}
		return tx.Create(&ratings).Error
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	log.Printf("[seed] demo data loaded, every account uses password %q", DemoPassword)
	return nil
}

func sampleOrder(customer models.Customer, chef models.Chef, dishes []models.Dish, fee string, status models.OrderStatus) *models.Order {
	var lines []pricing.Line
	var items []models.OrderItem
	for _, d := range dishes {
		lines = append(lines, pricing.Line{UnitPrice: d.Price, Quantity: 1})
		items = append(items, models.OrderItem{DishID: d.ID, Quantity: 1, UnitPrice: d.Price})
	}
	deliveryFee := decimal.RequireFromString(fee)
	subtotal := pricing.Subtotal(lines)
	return &models.Order{
		CustomerID:      customer.ID,
		ChefID:          chef.ID,
		Status:          status,
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFee,
		Total:           pricing.Total(subtotal, deliveryFee),
		DeliveryAddress: customer.DefaultAddress,
		PaymentMethod:   models.PaymentMock,
		Items:           items,
		StatusHistory: []models.OrderStatusHistory{
			{FromStatus: "", ToStatus: status, Note: "seeded"},
		},
	}
}

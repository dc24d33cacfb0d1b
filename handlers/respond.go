package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"panela-api/apperror"
	"panela-api/middleware"
	"panela-api/models"
	"panela-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError writes {"error": message} with the status for the error's
// kind. Unclassified errors are logged and reported as a generic 500.
func respondError(c *gin.Context, route string, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	message := err.Error()
	if kind == apperror.Internal {
		log.Printf("[%s] internal error: %v", route, err)
		message = "internal server error"
	} else {
		log.Printf("[%s] returning error %d: %s", route, status, message)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// notFoundOr turns a missing row into a NotFound with msg. Other store
// errors pass through and surface as 500s.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf("%s", msg)
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so user input matches literally.
// Pair it with ESCAPE '\' in the query.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// authorize resolves the caller and, when roles are given, requires one of
// them. It writes the error response itself and reports whether to go on.
func authorize(c *gin.Context, route string, roles ...models.Role) (services.Actor, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		respondError(c, route, apperror.Unauthorizedf("Authentication required"))
		return services.Actor{}, false
	}
	if len(roles) > 0 {
		if err := middleware.RequireRole(caller, roles...); err != nil {
			respondError(c, route, err)
			return services.Actor{}, false
		}
	}
	return services.Actor{UserID: caller.UserID, Role: caller.Role}, true
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

func parsePagination(pageStr, limitStr string) (int, int, error) {
	page, limit := defaultPage, defaultLimit
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return 0, 0, apperror.Validationf("page must be a positive integer")
		}
		page = p
	}
	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			return 0, 0, apperror.Validationf("limit must be a positive integer")
		}
		limit = min(l, maxLimit)
	}
	return page, limit, nil
}

func totalPages(total int64, limit int) int64 {
	return (total + int64(limit) - 1) / int64(limit)
}

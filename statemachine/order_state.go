package statemachine

import (
	"errors"
	"strings"

	"panela-api/models"
)

// Transition is one step of the published order lifecycle
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor string             `json:"actor"`
}

var statuses = []models.OrderStatus{
	models.StatusNew,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusDelivering,
	models.StatusCompleted,
	models.StatusCancelled,
}

// nominalTransitions is the lifecycle shown to clients. Updates are not
// restricted to it, see CanTransition.
var nominalTransitions = []Transition{
	{From: models.StatusNew, To: models.StatusPreparing, Actor: "chef"},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: "chef"},
	{From: models.StatusReady, To: models.StatusDelivering, Actor: "chef"},
	{From: models.StatusDelivering, To: models.StatusCompleted, Actor: "chef"},
	{From: models.StatusNew, To: models.StatusCancelled, Actor: "chef"},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: "chef"},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: "chef"},
	{From: models.StatusDelivering, To: models.StatusCancelled, Actor: "chef"},
}

type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
}

var nominalMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range nominalTransitions {
		m[transitionKey{t.From, t.To}] = true
	}
	return m
}()

// IsValid reports whether status is one of the known order statuses.
func IsValid(status models.OrderStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}

// NextStates returns the nominal successors of a status
func NextStates(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range nominalTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// IsNominal reports whether from → to follows the published lifecycle.
func IsNominal(from, to models.OrderStatus) bool {
	return nominalMap[transitionKey{from, to}]
}

// CanTransition accepts any known target status regardless of the current
// one; skipping steps or leaving a terminal state is allowed.
func CanTransition(from, to models.OrderStatus) error {
	if !IsValid(to) {
		return errors.New("invalid status " + string(to) + ": must be one of " + describe(statuses))
	}
	return nil
}

func describe(list []models.OrderStatus) string {
	if len(list) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// DescribeNext renders the nominal successors of status for messages.
func DescribeNext(status models.OrderStatus) string {
	return describe(NextStates(status))
}

// Statuses returns every known status in lifecycle order.
func Statuses() []models.OrderStatus {
	return append([]models.OrderStatus(nil), statuses...)
}

// GetAllTransitions returns the published lifecycle for documentation
func GetAllTransitions() []Transition {
	return nominalTransitions
}

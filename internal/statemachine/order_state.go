// Package statemachine defines the legal order status transitions and which
// actor may perform each one.
package statemachine

import (
	"fmt"

	"food-order-api/internal/models"
)

// Actor identifies who is attempting a transition.
const (
	ActorCustomer        = "customer"
	ActorRestaurantOwner = "restaurant_owner"
	ActorAdmin           = "admin"
	ActorSystem          = "system" // payment callback
)

type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative definition. Status flow is
// one-directional; cancellation is only reachable before fulfilment starts.
var validTransitions = []Transition{
	{From: models.OrderPending, To: models.OrderPaid, Actor: ActorSystem},

	{From: models.OrderPaid, To: models.OrderConfirmed, Actor: ActorRestaurantOwner},
	{From: models.OrderPaid, To: models.OrderConfirmed, Actor: ActorAdmin},
	{From: models.OrderConfirmed, To: models.OrderPreparing, Actor: ActorRestaurantOwner},
	{From: models.OrderConfirmed, To: models.OrderPreparing, Actor: ActorAdmin},
	{From: models.OrderPreparing, To: models.OrderOnTheWay, Actor: ActorRestaurantOwner},
	{From: models.OrderPreparing, To: models.OrderOnTheWay, Actor: ActorAdmin},
	{From: models.OrderOnTheWay, To: models.OrderDelivered, Actor: ActorRestaurantOwner},
	{From: models.OrderOnTheWay, To: models.OrderDelivered, Actor: ActorAdmin},

	{From: models.OrderPending, To: models.OrderCancelled, Actor: ActorCustomer},
	{From: models.OrderPending, To: models.OrderCancelled, Actor: ActorRestaurantOwner},
	{From: models.OrderPending, To: models.OrderCancelled, Actor: ActorAdmin},
	{From: models.OrderPaid, To: models.OrderCancelled, Actor: ActorCustomer},
	{From: models.OrderPaid, To: models.OrderCancelled, Actor: ActorRestaurantOwner},
	{From: models.OrderPaid, To: models.OrderCancelled, Actor: ActorAdmin},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.OrderDelivered || status == models.OrderCancelled
}

// ValidTransitionsFrom returns all statuses reachable from the given one.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks whether the actor may move an order between the two
// statuses.
func CanTransition(from, to models.OrderStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("invalid transition %s -> %s for actor %q", from, to, actor)
}

// IsValidStatus reports whether the value is a known order status.
func IsValidStatus(status models.OrderStatus) bool {
	switch status {
	case models.OrderPending, models.OrderPaid, models.OrderConfirmed,
		models.OrderPreparing, models.OrderOnTheWay, models.OrderDelivered,
		models.OrderCancelled:
		return true
	}
	return false
}

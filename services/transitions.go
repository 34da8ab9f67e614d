package services

import (
	"github.com/egnner/project-delivery-sub001/models"
)

// deliveryTransitions and pickupTransitions are the two fulfillment state
// machines, selected by the order's delivery mode. Statuses mapping to an
// empty slice are terminal. The tables are built once and never mutated at
// runtime.
var deliveryTransitions = map[models.FulfillmentStatus][]models.FulfillmentStatus{
	models.StatusNew:            {models.StatusPreparing},
	models.StatusPreparing:      {models.StatusReady},
	models.StatusReady:          {models.StatusOutForDelivery},
	models.StatusOutForDelivery: {models.StatusDelivered},
	models.StatusDelivered:      {models.StatusCompleted},
	models.StatusCompleted:      {},
	models.StatusCancelled:      {},
}

var pickupTransitions = map[models.FulfillmentStatus][]models.FulfillmentStatus{
	models.StatusNew:            {models.StatusPreparing},
	models.StatusPreparing:      {models.StatusReadyForPickup},
	models.StatusReadyForPickup: {models.StatusPickedUp},
	models.StatusPickedUp:       {models.StatusCompleted},
	models.StatusCompleted:      {},
	models.StatusCancelled:      {},
}

// transitionTable returns the state machine for the given delivery mode.
func transitionTable(mode models.DeliveryMode) map[models.FulfillmentStatus][]models.FulfillmentStatus {
	if mode == models.ModePickup {
		return pickupTransitions
	}
	return deliveryTransitions
}

// CanTransition reports whether the order's mode allows moving from its
// current fulfillment status to target. It only checks the chain; the
// payment-confirmed precondition is enforced by the order service.
func CanTransition(mode models.DeliveryMode, from, to models.FulfillmentStatus) bool {
	for _, next := range transitionTable(mode)[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal targets from the given status, for the
// dashboard to render as action buttons.
func NextStatuses(mode models.DeliveryMode, from models.FulfillmentStatus) []models.FulfillmentStatus {
	return transitionTable(mode)[from]
}

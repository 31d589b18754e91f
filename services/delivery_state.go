package services

import "delivery-service/models"

// Phase is the ordered delivery journey of an order once a partner is
// engaged. Cancelled sits outside the progression and is reachable from any
// non-terminal phase.
type Phase int

const (
	PhaseUnassigned Phase = iota
	PhaseAccepted
	PhaseReachedPickup
	PhasePickedUp
	PhaseReachedDrop
	PhaseDelivered
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseAccepted:
		return "accepted"
	case PhaseReachedPickup:
		return "reached_pickup"
	case PhasePickedUp:
		return "picked_up"
	case PhaseReachedDrop:
		return "reached_drop"
	case PhaseDelivered:
		return "delivered"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unassigned"
	}
}

// Two historical vocabularies map onto the same journey: the delivery-state
// status strings and the finer currentPhase strings written by older mobile
// builds. Both are recognized when classifying.
var phaseByDeliveryStatus = map[string]Phase{
	models.StatusAccepted:       PhaseAccepted,
	models.StatusReachedPickup:  PhaseReachedPickup,
	models.StatusOrderConfirmed: PhasePickedUp,
	"picked_up":                 PhasePickedUp,
	models.StatusReachedDrop:    PhaseReachedDrop,
	models.StatusDelivered:      PhaseDelivered,
	models.PhaseCompleted:       PhaseDelivered,
	models.StatusCancelled:      PhaseCancelled,
}

var phaseByCurrentPhase = map[string]Phase{
	models.PhaseEnRouteToPickup:   PhaseAccepted,
	models.PhaseAtPickup:          PhaseReachedPickup,
	"picked_up":                   PhasePickedUp,
	models.PhaseEnRouteToDelivery: PhasePickedUp,
	models.PhaseAtDelivery:        PhaseReachedDrop,
	models.StatusDelivered:        PhaseDelivered,
	models.PhaseCompleted:         PhaseDelivered,
	models.PhaseCancelledValue:    PhaseCancelled,
}

var phaseByLegacyStatus = map[string]Phase{
	models.StatusPending:        PhaseUnassigned,
	models.StatusPreparing:      PhaseUnassigned,
	models.StatusReady:          PhaseUnassigned,
	models.StatusAccepted:       PhaseAccepted,
	models.StatusReachedPickup:  PhaseReachedPickup,
	models.StatusOrderConfirmed: PhasePickedUp,
	models.StatusOutForDelivery: PhasePickedUp,
	models.StatusReachedDrop:    PhaseReachedDrop,
	models.StatusDelivered:      PhaseDelivered,
	models.StatusCancelled:      PhaseCancelled,
}

// PhaseOf classifies an order's current phase. The newer deliveryState
// fields are authoritative when present; the legacy top-level status string
// is the fallback.
func PhaseOf(order *models.Order) Phase {
	if p, ok := phaseByCurrentPhase[order.DeliveryState.CurrentPhase]; ok {
		return p
	}
	if p, ok := phaseByDeliveryStatus[order.DeliveryState.Status]; ok {
		return p
	}
	if p, ok := phaseByLegacyStatus[order.Status]; ok {
		return p
	}
	return PhaseUnassigned
}

// atOrPast reports whether the order has reached the target phase or any
// later one. Cancelled orders match no progression predicate.
func atOrPast(order *models.Order, target Phase) bool {
	p := PhaseOf(order)
	return p != PhaseCancelled && p >= target
}

// IsAcceptedByPartner is true from acceptance onward.
func IsAcceptedByPartner(order *models.Order) bool {
	return atOrPast(order, PhaseAccepted)
}

// IsReachedPickup is true from pickup arrival onward.
func IsReachedPickup(order *models.Order) bool {
	return atOrPast(order, PhaseReachedPickup)
}

// IsPickedUp is true from pickup confirmation onward.
func IsPickedUp(order *models.Order) bool {
	return atOrPast(order, PhasePickedUp)
}

// IsReachedDrop is true from drop arrival onward.
func IsReachedDrop(order *models.Order) bool {
	return atOrPast(order, PhaseReachedDrop)
}

// IsDelivered is true only for completed deliveries.
func IsDelivered(order *models.Order) bool {
	return PhaseOf(order) == PhaseDelivered
}

// IsTerminal reports whether no further transitions are admitted.
func IsTerminal(order *models.Order) bool {
	p := PhaseOf(order)
	return p == PhaseDelivered || p == PhaseCancelled
}

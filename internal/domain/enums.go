package domain

// OrderStatus represents the status of a bar order as reported by the backend
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCreated,
		OrderStatusConfirmed,
		OrderStatusPaid,
		OrderStatusCompleted,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the backend is expected to accept a
// transition to newStatus. Used only to decide which actions to offer.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusCreated:
		return newStatus == OrderStatusConfirmed ||
			newStatus == OrderStatusCancelled
	case OrderStatusConfirmed:
		return newStatus == OrderStatusPaid ||
			newStatus == OrderStatusCancelled
	case OrderStatusPaid:
		return newStatus == OrderStatusCompleted
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	default:
		return false
	}
}

// ReservationStatus represents the status of an event reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// IsValid checks if the reservation status is valid
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a reservation can move to the target status
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	switch s {
	case ReservationStatusPending:
		return target == ReservationStatusConfirmed || target == ReservationStatusCancelled
	case ReservationStatusConfirmed:
		return target == ReservationStatusCancelled
	default:
		return false
	}
}

// BeerType distinguishes draught from bottled beers
type BeerType string

const (
	BeerTypeTap     BeerType = "TAP"
	BeerTypeBottled BeerType = "BOTTLED"
)

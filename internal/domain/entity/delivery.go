package entity

import "time"

// Delivery status
const (
	DeliverySent   = "SENT"
	DeliveryFailed = "FAILED"
)

// TicketDelivery records one attempt to email a ticket
type TicketDelivery struct {
	ID          uint
	AttendeeID  string
	Email       string
	Channel     string
	Provider    string
	MessageID   string
	Status      string
	ErrorDetail string
	CreatedAt   time.Time
}

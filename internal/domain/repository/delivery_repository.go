package repository

import (
	"context"

	"asistencia-service/internal/domain/entity"
)

// DeliveryRepository records ticket delivery attempts
type DeliveryRepository interface {
	Record(ctx context.Context, delivery *entity.TicketDelivery) error
	FindByEmail(ctx context.Context, email string, limit int) ([]*entity.TicketDelivery, error)
}

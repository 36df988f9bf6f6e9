package repository

import (
	"context"
	"fmt"

	"asistencia-service/internal/domain/entity"
	"asistencia-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements DeliveryRepository on Postgres
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GORM delivery repository
func NewGormDeliveryRepository(db *gorm.DB) repository.DeliveryRepository {
	return &GormDeliveryRepository{
		db: db,
	}
}

// TicketDeliveries GORM model for database mapping
type TicketDeliveries struct {
	gorm.Model
	AttendeeID  string `gorm:"column:attendee_id;index"`
	Email       string `gorm:"column:email;index;not null"`
	Channel     string `gorm:"column:channel"`
	Provider    string `gorm:"column:provider"`
	MessageID   string `gorm:"column:message_id"`
	Status      string `gorm:"column:status"`
	ErrorDetail string `gorm:"column:error_detail"`
}

// TableName overrides the default table name
func (TicketDeliveries) TableName() string {
	return "ticket_deliveries"
}

// Migrate creates or updates the ledger table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&TicketDeliveries{})
}

// Record stores a delivery attempt
func (r *GormDeliveryRepository) Record(ctx context.Context, delivery *entity.TicketDelivery) error {
	row := TicketDeliveries{
		AttendeeID:  delivery.AttendeeID,
		Email:       delivery.Email,
		Channel:     delivery.Channel,
		Provider:    delivery.Provider,
		MessageID:   delivery.MessageID,
		Status:      delivery.Status,
		ErrorDetail: delivery.ErrorDetail,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	delivery.ID = row.ID
	delivery.CreatedAt = row.CreatedAt
	return nil
}

// FindByEmail returns the latest attempts for an address, newest first
func (r *GormDeliveryRepository) FindByEmail(ctx context.Context, email string, limit int) ([]*entity.TicketDelivery, error) {
	var rows []TicketDeliveries
	result := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at desc").
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	out := make([]*entity.TicketDelivery, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.TicketDelivery{
			ID:          row.ID,
			AttendeeID:  row.AttendeeID,
			Email:       row.Email,
			Channel:     row.Channel,
			Provider:    row.Provider,
			MessageID:   row.MessageID,
			Status:      row.Status,
			ErrorDetail: row.ErrorDetail,
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}

package repository

import (
	"context"

	"asistencia-service/internal/domain/entity"
)

// MailRepository delivers outbound email through a transactional provider
type MailRepository interface {
	// Send returns the provider message id
	Send(ctx context.Context, email *entity.OutboundEmail) (string, error)
	Provider() string
}

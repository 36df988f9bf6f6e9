package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"asistencia-service/internal/domain/entity"
	"asistencia-service/internal/domain/repository"
	"asistencia-service/pkg/logger"
	"asistencia-service/pkg/metrics"
	"asistencia-service/templates"
)

// TicketOptions carries the sender identity and event details shown in the email
type TicketOptions struct {
	From       string
	EventName  string
	EventVenue string
}

// TicketService emails the QR ticket to an attendee
type TicketService struct {
	mailRepo     repository.MailRepository
	channel      QRChannel
	deliveryRepo repository.DeliveryRepository // optional ledger
	options      TicketOptions
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewTicketService creates a new ticket service. deliveryRepo may be nil.
func NewTicketService(
	mailRepo repository.MailRepository,
	channel QRChannel,
	deliveryRepo repository.DeliveryRepository,
	options TicketOptions,
	metrics *metrics.Metrics,
	logger logger.Logger,
) (*TicketService, error) {
	if strings.TrimSpace(options.From) == "" {
		return nil, entity.ErrConfiguration("EMAIL_FROM")
	}
	return &TicketService{
		mailRepo:     mailRepo,
		channel:      channel,
		deliveryRepo: deliveryRepo,
		options:      options,
		metrics:      metrics,
		logger:       logger,
	}, nil
}

// Send delivers the ticket and returns the provider message id. It does not retry.
func (s *TicketService) Send(ctx context.Context, req entity.TicketRequest) (string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Nombre = strings.TrimSpace(req.Nombre)
	if err := validateTicketRequest(req); err != nil {
		return "", err
	}
	s.logPreviousDelivery(ctx, req.Email)

	artifact, err := s.channel.Resolve(ctx, req)
	if err != nil {
		s.record(ctx, req, "", err)
		return "", err
	}

	linkURL := req.QRURL
	if artifact.Kind == entity.ChannelPublicURL {
		linkURL = artifact.PublicURL
	}
	html, err := templates.RenderTicket(templates.TicketData{
		Nombre:     req.Nombre,
		EventName:  s.options.EventName,
		EventVenue: s.options.EventVenue,
		ImageSrc:   artifact.ImageSrc(),
		LinkURL:    linkURL,
	})
	if err != nil {
		return "", err
	}

	email := &entity.OutboundEmail{
		From:    s.options.From,
		To:      []string{req.Email},
		Subject: templates.TicketSubject(req.Nombre),
		HTML:    html,
	}
	if artifact.Attachment != nil {
		email.Attachments = append(email.Attachments, *artifact.Attachment)
	}

	messageID, err := s.mailRepo.Send(ctx, email)
	s.record(ctx, req, messageID, err)
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("send_ticket").Inc()
		s.logger.Error("Failed to send ticket",
			"email", req.Email,
			"provider", s.mailRepo.Provider(),
			"error", err)
		return "", err
	}

	s.metrics.TicketsSent.WithLabelValues(s.channel.Name(), s.mailRepo.Provider()).Inc()
	s.logger.Info("Ticket sent",
		"email", req.Email,
		"messageId", messageID,
		"channel", artifact.Kind)

	return messageID, nil
}

func validateTicketRequest(req entity.TicketRequest) error {
	var missing []string
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Nombre == "" {
		missing = append(missing, "nombre")
	}
	if strings.TrimSpace(req.QRURL) == "" {
		missing = append(missing, "qrUrl")
	}
	if len(missing) > 0 {
		return entity.ErrValidation("Campos requeridos: " + strings.Join(missing, ", "))
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return entity.ErrValidation(fmt.Sprintf("El correo %s no es válido", req.Email))
	}
	return nil
}

// logPreviousDelivery notes when the attendee already received a ticket
func (s *TicketService) logPreviousDelivery(ctx context.Context, email string) {
	if s.deliveryRepo == nil {
		return
	}

	previous, err := s.deliveryRepo.FindByEmail(ctx, email, 1)
	if err != nil {
		s.logger.Warn("Failed to read delivery history", "email", email, "error", err)
		return
	}
	if len(previous) > 0 {
		s.logger.Info("Ticket requested again",
			"email", email,
			"previousStatus", previous[0].Status,
			"previousMessageId", previous[0].MessageID,
			"previousAt", previous[0].CreatedAt)
	}
}

// record writes the attempt to the ledger; ledger failures never fail the send
func (s *TicketService) record(ctx context.Context, req entity.TicketRequest, messageID string, sendErr error) {
	if s.deliveryRepo == nil {
		return
	}

	delivery := &entity.TicketDelivery{
		AttendeeID: req.AttendeeID,
		Email:      req.Email,
		Channel:    s.channel.Name(),
		Provider:   s.mailRepo.Provider(),
		MessageID:  messageID,
		Status:     entity.DeliverySent,
	}
	if sendErr != nil {
		delivery.Status = entity.DeliveryFailed
		delivery.ErrorDetail = sendErr.Error()
	}

	if err := s.deliveryRepo.Record(ctx, delivery); err != nil {
		s.logger.Warn("Failed to record delivery", "email", req.Email, "error", err)
	}
}

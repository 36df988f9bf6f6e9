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
	"asistencia-service/pkg/utils"
)

// QREncoder renders an identifier as a QR data URI
type QREncoder interface {
	DataURI(content string) (string, error)
}

// RegistrationInput is the registration form
type RegistrationInput struct {
	Nombre          string
	PrimerApellido  string
	SegundoApellido string
	Telefono        string
	Email           string
	Ciudad          string
	Municipio       string
	Barrio          string
	InvitadoPor     string
	PrimeraVez      string
}

// RegistrationResult is reported back to the registering client
type RegistrationResult struct {
	AttendeeID string
	QRURL      string
	Nombre     string
	Email      string
}

// RegistrationService creates attendees and issues their QR
type RegistrationService struct {
	attendeeRepo repository.AttendeeRepository
	encoder      QREncoder
	blobRepo     repository.BlobRepository // set only when QR images are published
	clock        *utils.ReportingClock
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewRegistrationService creates a new registration service. blobRepo may be nil.
func NewRegistrationService(
	attendeeRepo repository.AttendeeRepository,
	encoder QREncoder,
	blobRepo repository.BlobRepository,
	clock *utils.ReportingClock,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *RegistrationService {
	return &RegistrationService{
		attendeeRepo: attendeeRepo,
		encoder:      encoder,
		blobRepo:     blobRepo,
		clock:        clock,
		metrics:      metrics,
		logger:       logger,
	}
}

// Register validates the form, stores the attendee with its QR and returns the QR
// reference: the public URL when publishing is enabled, the data URI otherwise.
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (*RegistrationResult, error) {
	attendee, err := s.buildAttendee(in)
	if err != nil {
		return nil, err
	}

	attendee.ID = s.attendeeRepo.NextID()
	qr, err := s.encoder.DataURI(attendee.ID)
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("register").Inc()
		return nil, fmt.Errorf("failed to encode qr: %w", err)
	}
	attendee.QRCode = qr

	if err := s.attendeeRepo.Create(ctx, attendee); err != nil {
		if entity.FaultKind(err) == entity.KindValidation {
			return nil, err
		}
		s.metrics.ErrorsCount.WithLabelValues("register").Inc()
		return nil, fmt.Errorf("failed to create attendee: %w", err)
	}

	s.metrics.Registrations.Inc()
	s.logger.Info("Attendee registered", "attendeeId", attendee.ID, "email", attendee.Email)

	return &RegistrationResult{
		AttendeeID: attendee.ID,
		QRURL:      s.publish(ctx, attendee),
		Nombre:     attendee.Nombre,
		Email:      attendee.Email,
	}, nil
}

// publish uploads the QR when a blob store is configured. The record is already
// stored, so an upload failure degrades to the data URI.
func (s *RegistrationService) publish(ctx context.Context, attendee *entity.Attendee) string {
	if s.blobRepo == nil {
		return attendee.QRCode
	}

	_, png, err := utils.DecodeDataURI(attendee.QRCode)
	if err == nil {
		var url string
		url, err = s.blobRepo.Upload(ctx, qrObjectKey(attendee.ID), "image/png", png)
		if err == nil {
			return url
		}
	}

	s.metrics.ErrorsCount.WithLabelValues("qr_publish").Inc()
	s.logger.Warn("Failed to publish qr, returning data uri", "attendeeId", attendee.ID, "error", err)
	return attendee.QRCode
}

func (s *RegistrationService) buildAttendee(in RegistrationInput) (*entity.Attendee, error) {
	a := &entity.Attendee{
		Nombre:          strings.TrimSpace(in.Nombre),
		PrimerApellido:  strings.TrimSpace(in.PrimerApellido),
		SegundoApellido: strings.TrimSpace(in.SegundoApellido),
		Telefono:        strings.TrimSpace(in.Telefono),
		Email:           strings.ToLower(strings.TrimSpace(in.Email)),
		Ciudad:          strings.TrimSpace(in.Ciudad),
		Municipio:       strings.TrimSpace(in.Municipio),
		Barrio:          strings.TrimSpace(in.Barrio),
		InvitadoPor:     strings.TrimSpace(in.InvitadoPor),
		PrimeraVez:      strings.TrimSpace(in.PrimeraVez),
		Asistencias:     []entity.AttendanceEntry{},
		FechaRegistro:   s.clock.Now().UTC(),
	}

	required := []struct {
		field string
		value string
	}{
		{"nombre", a.Nombre},
		{"primerApellido", a.PrimerApellido},
		{"telefono", a.Telefono},
		{"email", a.Email},
		{"ciudad", a.Ciudad},
		{"municipio", a.Municipio},
		{"barrio", a.Barrio},
		{"primeraVez", a.PrimeraVez},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return nil, entity.ErrValidation("Campos requeridos: " + strings.Join(missing, ", "))
	}

	if addr, err := mail.ParseAddress(a.Email); err != nil || addr.Address != a.Email {
		return nil, entity.ErrValidation("El correo " + a.Email + " no es válido")
	}

	if a.PrimeraVez != entity.FirstTimeYes && a.PrimeraVez != entity.FirstTimeNo {
		return nil, entity.ErrValidation("primeraVez debe ser 'si' o 'no'")
	}

	return a, nil
}

func qrObjectKey(attendeeID string) string {
	return "qr/" + attendeeID + ".png"
}

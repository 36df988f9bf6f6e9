package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistencia-service/internal/domain/entity"
	"asistencia-service/internal/domain/repository"
	"asistencia-service/pkg/logger"
	"asistencia-service/pkg/metrics"
	"asistencia-service/pkg/utils"
)

func validInput() RegistrationInput {
	return RegistrationInput{
		Nombre:         "  Ana ",
		PrimerApellido: "Pérez",
		Telefono:       "3001234567",
		Email:          " Ana@X.com ",
		Ciudad:         "Bogotá",
		Municipio:      "Bogotá",
		Barrio:         "Chapinero",
		PrimeraVez:     "si",
	}
}

func newRegistrationFixture(t *testing.T, encoder QREncoder, blob repository.BlobRepository) (*RegistrationService, *memoryAttendeeRepository) {
	t.Helper()
	loc := bogota(t)
	clock := utils.NewReportingClockAt(loc, func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, loc) })
	repo := newMemoryAttendeeRepository()
	return NewRegistrationService(repo, encoder, blob, clock, metrics.NewNopMetrics(), logger.NewNop()), repo
}

func TestRegister_StoresNormalizedAttendeeWithQR(t *testing.T) {
	svc, repo := newRegistrationFixture(t, fakeEncoder{}, nil)
	ctx := context.Background()

	result, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "Ana", result.Nombre)
	assert.Equal(t, "ana@x.com", result.Email)
	assert.Equal(t, "data:image/png;base64,cG5n", result.QRURL)

	stored, err := repo.FindByID(ctx, result.AttendeeID)
	require.NoError(t, err)
	assert.Equal(t, result.QRURL, stored.QRCode)
	assert.Empty(t, stored.Asistencias)
	assert.False(t, stored.FechaRegistro.IsZero())
}

func TestRegister_DuplicateEmailIsValidationFault(t *testing.T) {
	svc, _ := newRegistrationFixture(t, fakeEncoder{}, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	again := validInput()
	again.Email = "ANA@x.com"
	_, err = svc.Register(ctx, again)
	assert.Equal(t, entity.KindValidation, entity.FaultKind(err))
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *RegistrationInput)
	}{
		{"missing nombre", func(in *RegistrationInput) { in.Nombre = "   " }},
		{"missing barrio", func(in *RegistrationInput) { in.Barrio = "" }},
		{"bad email", func(in *RegistrationInput) { in.Email = "not-an-email" }},
		{"primeraVez out of range", func(in *RegistrationInput) { in.PrimeraVez = "tal vez" }},
		{"primeraVez missing", func(in *RegistrationInput) { in.PrimeraVez = "" }},
		{"primeraVez is case sensitive", func(in *RegistrationInput) { in.PrimeraVez = "SI" }},
		{"primeraVez capitalized", func(in *RegistrationInput) { in.PrimeraVez = "No" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newRegistrationFixture(t, fakeEncoder{}, nil)
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			assert.Equal(t, entity.KindValidation, entity.FaultKind(err))
			assert.Empty(t, repo.attendees)
		})
	}
}

func TestRegister_OptionalFieldsMayBeEmpty(t *testing.T) {
	svc, _ := newRegistrationFixture(t, fakeEncoder{}, nil)
	in := validInput()
	in.SegundoApellido = ""
	in.InvitadoPor = ""
	in.PrimeraVez = " no "

	_, err := svc.Register(context.Background(), in)
	assert.NoError(t, err)
}

func TestRegister_EncoderFailureIsServerFault(t *testing.T) {
	svc, repo := newRegistrationFixture(t, fakeEncoder{err: errors.New("boom")}, nil)

	_, err := svc.Register(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, entity.Kind(""), entity.FaultKind(err))
	assert.Empty(t, repo.attendees)
}

func TestRegister_PublishesQRWhenBlobStoreConfigured(t *testing.T) {
	blob := &fakeBlob{}
	svc, _ := newRegistrationFixture(t, fakeEncoder{}, blob)

	result, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	key := "qr/" + result.AttendeeID + ".png"
	assert.Equal(t, "https://cdn.example.com/tickets/"+key, result.QRURL)
	assert.Equal(t, []byte("png"), blob.uploads[key])
}

func TestRegister_PublishFailureFallsBackToDataURI(t *testing.T) {
	svc, _ := newRegistrationFixture(t, fakeEncoder{}, &fakeBlob{err: errors.New("bucket gone")})

	result, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,cG5n", result.QRURL)
}

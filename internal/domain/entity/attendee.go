// internal/domain/entity/attendee.go
package entity

import (
	"time"
)

// First-time flag values
const (
	FirstTimeYes = "si"
	FirstTimeNo  = "no"
)

// Attendee represents a registered event attendee
type Attendee struct {
	ID              string            `bson:"_id,omitempty" json:"id"`
	Nombre          string            `bson:"nombre" json:"nombre"`
	PrimerApellido  string            `bson:"primerApellido" json:"primerApellido"`
	SegundoApellido string            `bson:"segundoApellido,omitempty" json:"segundoApellido,omitempty"`
	Telefono        string            `bson:"telefono" json:"telefono"`
	Email           string            `bson:"email" json:"email"` // unique index, lowercase
	Ciudad          string            `bson:"ciudad" json:"ciudad"`
	Municipio       string            `bson:"municipio" json:"municipio"`
	Barrio          string            `bson:"barrio" json:"barrio"`
	InvitadoPor     string            `bson:"invitadoPor,omitempty" json:"invitadoPor,omitempty"`
	PrimeraVez      string            `bson:"primeraVez" json:"primeraVez"`
	QRCode          string            `bson:"qrCode" json:"qrCode"`
	Asistencias     []AttendanceEntry `bson:"asistencias" json:"asistencias"`
	FechaRegistro   time.Time         `bson:"fechaRegistro" json:"fechaRegistro"`
}

// AttendanceEntry is one successful check-in
type AttendanceEntry struct {
	Fecha      string    `bson:"fecha" json:"fecha"` // YYYY-MM-DD in the reporting timezone
	HoraExacta time.Time `bson:"horaExacta" json:"horaExacta"`
}

// AttendanceOn returns the entry recorded for the given date, if any
func (a *Attendee) AttendanceOn(fecha string) (AttendanceEntry, bool) {
	for _, entry := range a.Asistencias {
		if entry.Fecha == fecha {
			return entry, true
		}
	}
	return AttendanceEntry{}, false
}

// DisplayName is the name shown on the scanner and in emails
func (a *Attendee) DisplayName() string {
	return a.Nombre
}

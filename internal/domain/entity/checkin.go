package entity

// CheckInResult is returned for a first entry of the day
type CheckInResult struct {
	AttendeeID string
	Nombre     string
	Fecha      string
	Total      int64
}

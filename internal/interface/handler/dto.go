package handler

// RegisterRequest is the registration form body
type RegisterRequest struct {
	Nombre          string `json:"nombre" binding:"required"`
	PrimerApellido  string `json:"primerApellido" binding:"required"`
	SegundoApellido string `json:"segundoApellido"`
	Telefono        string `json:"telefono" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Ciudad          string `json:"ciudad" binding:"required"`
	Municipio       string `json:"municipio" binding:"required"`
	Barrio          string `json:"barrio" binding:"required"`
	InvitadoPor     string `json:"invitadoPor"`
	PrimeraVez      string `json:"primeraVez" binding:"required"`
}

type RegisterResponse struct {
	Success bool   `json:"success"`
	QRURL   string `json:"qrUrl"`
	Nombre  string `json:"nombre"`
	Email   string `json:"email"`
}

// SendTicketRequest asks for the ticket email of a registered attendee
type SendTicketRequest struct {
	ID     string `json:"id"`
	Email  string `json:"email" binding:"required"`
	Nombre string `json:"nombre" binding:"required"`
	QRURL  string `json:"qrUrl" binding:"required"`
}

type CheckInResponse struct {
	Message string `json:"message"`
	Total   int64  `json:"total"`
}

type CountResponse struct {
	Total int64 `json:"total"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"asistencia-service/internal/domain/entity"
	"asistencia-service/internal/usecase"
	"asistencia-service/pkg/logger"
)

// Registrar creates attendees
type Registrar interface {
	Register(ctx context.Context, in usecase.RegistrationInput) (*usecase.RegistrationResult, error)
}

// TicketSender emails tickets
type TicketSender interface {
	Send(ctx context.Context, req entity.TicketRequest) (string, error)
}

// Gate validates entries and reports the daily population
type Gate interface {
	CheckIn(ctx context.Context, attendeeID string) (*entity.CheckInResult, error)
	CountToday(ctx context.Context) (int64, error)
}

// Handler serves the attendee API
type Handler struct {
	registrar Registrar
	tickets   TicketSender
	gate      Gate
	logger    logger.Logger
}

func NewHandler(registrar Registrar, tickets TicketSender, gate Gate, logger logger.Logger) *Handler {
	return &Handler{
		registrar: registrar,
		tickets:   tickets,
		gate:      gate,
		logger:    logger,
	}
}

// RegisterRoutes mounts the attendee routes on r
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/registrar", h.Register)
	r.POST("/enviar-email", h.SendTicket)
	r.PUT("/validar/:id", h.CheckIn)
	r.GET("/conteo", h.Count)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Success: false, Message: bindMessage(err)})
		return
	}

	res, err := h.registrar.Register(c.Request.Context(), usecase.RegistrationInput{
		Nombre:          req.Nombre,
		PrimerApellido:  req.PrimerApellido,
		SegundoApellido: req.SegundoApellido,
		Telefono:        req.Telefono,
		Email:           req.Email,
		Ciudad:          req.Ciudad,
		Municipio:       req.Municipio,
		Barrio:          req.Barrio,
		InvitadoPor:     req.InvitadoPor,
		PrimeraVez:      req.PrimeraVez,
	})
	if err != nil {
		var fault *entity.Fault
		if errors.As(err, &fault) && fault.Kind == entity.KindValidation {
			c.JSON(http.StatusBadRequest, MessageResponse{Success: false, Message: fault.Message})
			return
		}
		h.logger.Error("Registration failed", "error", err, "requestId", requestIDFrom(c))
		c.JSON(http.StatusInternalServerError, MessageResponse{Success: false, Message: "Error interno al registrar"})
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Success: true,
		QRURL:   res.QRURL,
		Nombre:  res.Nombre,
		Email:   res.Email,
	})
}

func (h *Handler) SendTicket(c *gin.Context) {
	var req SendTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Success: false, Error: bindMessage(err)})
		return
	}

	_, err := h.tickets.Send(c.Request.Context(), entity.TicketRequest{
		AttendeeID: req.ID,
		Email:      req.Email,
		Nombre:     req.Nombre,
		QRURL:      req.QRURL,
	})
	if err != nil {
		var fault *entity.Fault
		if !errors.As(err, &fault) {
			h.logger.Error("Ticket delivery failed", "error", err, "requestId", requestIDFrom(c))
			c.JSON(http.StatusInternalServerError, MessageResponse{Success: false, Message: "Error interno al procesar el envío"})
			return
		}
		switch {
		case fault.Kind == entity.KindValidation, fault.Kind == entity.KindCollaborator && fault.ClientCaused:
			c.JSON(http.StatusBadRequest, MessageResponse{Success: false, Error: fault.Message})
		case fault.Kind == entity.KindConfiguration:
			c.JSON(http.StatusInternalServerError, MessageResponse{Success: false, Message: "Error de configuración de correo en el servidor."})
		default:
			c.JSON(http.StatusInternalServerError, MessageResponse{Success: false, Message: "Error interno al procesar el envío"})
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Correo enviado correctamente"})
}

func (h *Handler) CheckIn(c *gin.Context) {
	res, err := h.gate.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		var fault *entity.Fault
		if errors.As(err, &fault) {
			switch fault.Kind {
			case entity.KindNotFound:
				c.JSON(http.StatusNotFound, gin.H{"message": "Error: El código QR no es válido o no existe."})
				return
			case entity.KindDuplicate:
				c.JSON(http.StatusBadRequest, gin.H{
					"message": fmt.Sprintf("%s ya ingresó hoy a las %s.", fault.Nombre, fault.OriginalTimeOfDay),
				})
				return
			}
		}
		h.logger.Error("Check-in failed", "attendeeId", c.Param("id"), "error", err, "requestId", requestIDFrom(c))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno al procesar el código."})
		return
	}

	c.JSON(http.StatusOK, CheckInResponse{
		Message: fmt.Sprintf("¡Bienvenido/a %s! (Día: %s)", res.Nombre, res.Fecha),
		Total:   res.Total,
	})
}

// Count never fails the caller; a store error reads as zero
func (h *Handler) Count(c *gin.Context) {
	total, err := h.gate.CountToday(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count attendance", "error", err, "requestId", requestIDFrom(c))
		c.JSON(http.StatusInternalServerError, CountResponse{Total: 0})
		return
	}
	c.JSON(http.StatusOK, CountResponse{Total: total})
}

func bindMessage(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return "La solicitud es demasiado grande"
	}
	if strings.Contains(err.Error(), "required") {
		return "Faltan campos obligatorios"
	}
	return "Datos inválidos"
}

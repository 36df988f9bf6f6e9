// Package templates renders the ticket email.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// TicketData feeds the ticket email template
type TicketData struct {
	Nombre     string
	EventName  string
	EventVenue string
	ImageSrc   string
	LinkURL    string
}

var ticketTemplate = template.Must(template.New("ticket").Parse(`<div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #ffffff; padding: 40px 20px; text-align: center; color: #333;">
  <div style="max-width: 500px; margin: auto;">
    <h1 style="font-size: 31px; color: #1a1a1a; margin-bottom: 10px;">¡Hola, {{.Nombre}}! Bienvenido(a)</h1>
    <h2 style="font-size: 25px; color: #1a1a1a; margin-bottom: 10px;">Aquí tienes tu entrada para {{.EventName}}{{if .EventVenue}}, que se realizará en {{.EventVenue}}{{end}}</h2>
    <p style="font-size: 20px; color: #666; margin-bottom: 30px;">Presenta este código QR cada día al ingresar al evento.</p>
    <div style="background-color: #f9f9f9; padding: 25px; border-radius: 15px; display: inline-block; border: 1px solid #eeeeee;">
      {{if .LinkURL}}<a href="{{.LinkURL}}" target="_blank" style="text-decoration: none;">{{end}}
        <img src="{{.ImageSrc}}" alt="Código QR" width="220" height="220" style="display: block; border: none;" />
      {{if .LinkURL}}</a>{{end}}
    </div>
    {{if .LinkURL}}<div style="margin-top: 35px;">
      <a href="{{.LinkURL}}" target="_blank" style="background-color: #007bff; color: #ffffff; padding: 14px 28px; border-radius: 8px; text-decoration: none; font-weight: bold; font-size: 15px; display: inline-block;">Ver QR en pantalla completa</a>
    </div>{{end}}
    <p style="color: #999; font-size: 12px; margin-top: 40px;">Sugerencia: guarda esta imagen en tu galería para un acceso más rápido.</p>
  </div>
</div>`))

type renderData struct {
	Nombre     string
	EventName  string
	EventVenue string
	ImageSrc   template.URL
	LinkURL    template.URL
}

// RenderTicket renders the HTML body. ImageSrc and LinkURL are produced by the service
// (data:, cid: or https: URLs) and are trusted.
func RenderTicket(data TicketData) (string, error) {
	var buf bytes.Buffer
	err := ticketTemplate.Execute(&buf, renderData{
		Nombre:     data.Nombre,
		EventName:  data.EventName,
		EventVenue: data.EventVenue,
		ImageSrc:   template.URL(data.ImageSrc),
		LinkURL:    template.URL(data.LinkURL),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render ticket: %w", err)
	}
	return buf.String(), nil
}

// TicketSubject is the subject line of the ticket email
func TicketSubject(nombre string) string {
	return fmt.Sprintf("¡Aquí tienes tu entrada, %s!", nombre)
}

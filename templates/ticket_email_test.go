package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTicketKeepsTrustedURLs(t *testing.T) {
	html, err := RenderTicket(TicketData{
		Nombre:    "Ana",
		EventName: "Evento 5G",
		ImageSrc:  "cid:qr_ticket_cid",
		LinkURL:   "data:image/png;base64,AAAA",
	})
	require.NoError(t, err)

	assert.Contains(t, html, `src="cid:qr_ticket_cid"`)
	assert.Contains(t, html, `href="data:image/png;base64,AAAA"`)
	assert.Contains(t, html, "Ver QR en pantalla completa")
	assert.NotContains(t, html, "ZgotmplZ")
}

func TestRenderTicketEscapesName(t *testing.T) {
	html, err := RenderTicket(TicketData{Nombre: "<script>x</script>", ImageSrc: "https://cdn/qr.png"})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>x</script>")
	assert.NotContains(t, html, "Ver QR en pantalla completa")
}

func TestTicketSubject(t *testing.T) {
	assert.Equal(t, "¡Aquí tienes tu entrada, Ana!", TicketSubject("Ana"))
}

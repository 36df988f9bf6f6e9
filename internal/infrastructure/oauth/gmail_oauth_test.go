package oauth

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistencia-service/pkg/logger"
)

func TestGenerateAuthURLRequestsOfflineSendScope(t *testing.T) {
	o := NewGmailOAuth("client-id", "client-secret", "", logger.NewNop())
	o.SetRedirectURL("http://localhost:8090/oauth2callback")

	raw := o.GenerateAuthURL("xyz")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "xyz", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "https://www.googleapis.com/auth/gmail.send", q.Get("scope"))
	assert.Equal(t, "http://localhost:8090/oauth2callback", q.Get("redirect_uri"))
}

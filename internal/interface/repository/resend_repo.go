package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"asistencia-service/internal/domain/entity"
	"asistencia-service/internal/domain/repository"
	"asistencia-service/pkg/logger"
)

// ResendRepository sends email through the Resend API
type ResendRepository struct {
	logger logger.Logger
	client *resend.Client
}

// NewResendRepository creates a new Resend mail repository. baseURL overrides the
// API endpoint when set.
func NewResendRepository(baseURL, apiKey string, httpClient *http.Client, logger logger.Logger) (repository.MailRepository, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	next := httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	recording := *httpClient
	recording.Transport = statusRecorder{next: next}

	client := resend.NewCustomClient(&recording, apiKey)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = u
	}

	return &ResendRepository{
		logger: logger,
		client: client,
	}, nil
}

// Provider returns the provider name
func (r *ResendRepository) Provider() string {
	return "resend"
}

// Send submits the email and returns the Resend message id
func (r *ResendRepository) Send(ctx context.Context, email *entity.OutboundEmail) (string, error) {
	params := &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
	}
	for _, a := range email.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Data,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		})
	}

	status := new(int)
	sent, err := r.client.Emails.SendWithContext(context.WithValue(ctx, statusKey{}, status), params)
	if err != nil {
		if *status == 0 {
			return "", entity.ErrCollaborator("resend request failed", false, err)
		}
		// 4xx means Resend rejected our input, except rate limiting
		clientCaused := *status >= 400 && *status < 500 && *status != http.StatusTooManyRequests
		return "", entity.ErrCollaborator(fmt.Sprintf("resend returned status %d", *status), clientCaused, err)
	}

	r.logger.Info("Email accepted by Resend",
		"messageId", sent.Id,
		"to", strings.Join(email.To, ","),
		"attachments", len(email.Attachments))

	return sent.Id, nil
}

type statusKey struct{}

// statusRecorder stores the response status in the *int carried by the request
// context; the SDK's errors do not expose it.
type statusRecorder struct {
	next http.RoundTripper
}

func (t statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if resp != nil {
		if status, ok := req.Context().Value(statusKey{}).(*int); ok {
			*status = resp.StatusCode
		}
	}
	return resp, err
}

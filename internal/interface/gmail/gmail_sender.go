package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"asistencia-service/internal/domain/entity"
	"asistencia-service/internal/domain/repository"
	"asistencia-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GmailSender sends ticket emails through the Gmail API
type GmailSender struct {
	gmailService *gmail.Service
	logger       logger.Logger
}

// NewGmailSender creates a sender authorised by tokenSource
func NewGmailSender(ctx context.Context, tokenSource oauth2.TokenSource, logger logger.Logger) (repository.MailRepository, error) {
	return newGmailSender(ctx, logger, option.WithTokenSource(tokenSource))
}

func newGmailSender(ctx context.Context, logger logger.Logger, opts ...option.ClientOption) (*GmailSender, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &GmailSender{
		gmailService: service,
		logger:       logger,
	}, nil
}

// Provider returns the provider name
func (s *GmailSender) Provider() string {
	return "gmail"
}

// Send encodes email as MIME and submits it as the authorised user
func (s *GmailSender) Send(ctx context.Context, email *entity.OutboundEmail) (string, error) {
	raw, err := buildMIME(email)
	if err != nil {
		return "", entity.ErrCollaborator("failed to build message", true, err)
	}

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	sent, err := s.gmailService.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return "", entity.ErrCollaborator(
				fmt.Sprintf("gmail returned status %d", apiErr.Code),
				apiErr.Code == http.StatusBadRequest,
				err,
			)
		}
		return "", entity.ErrCollaborator("gmail request failed", false, err)
	}

	s.logger.Info("Email accepted by Gmail",
		"messageId", sent.Id,
		"to", strings.Join(email.To, ","),
		"attachments", len(email.Attachments))

	return sent.Id, nil
}

// buildMIME renders the raw RFC 5322 message. Attachments with a Content-ID are
// embedded inline next to the HTML part, the rest are regular attachments.
func buildMIME(email *entity.OutboundEmail) ([]byte, error) {
	if len(email.To) == 0 {
		return nil, errors.New("message has no recipients")
	}

	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())
	if err := msg.From(email.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)

	var embedded, attached int
	for _, a := range email.Attachments {
		opts := []mail.FileOption{mail.WithFileContentType(mail.ContentType(a.ContentType))}
		if a.ContentID == "" {
			if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Data), opts...); err != nil {
				return nil, fmt.Errorf("failed to attach %s: %w", a.Filename, err)
			}
			attached++
			continue
		}
		opts = append(opts, mail.WithFileContentID("<"+a.ContentID+">"))
		if err := msg.EmbedReader(a.Filename, bytes.NewReader(a.Data), opts...); err != nil {
			return nil, fmt.Errorf("failed to embed %s: %w", a.Filename, err)
		}
		embedded++
	}

	// multipart/related must name the type of its root part
	if embedded > 0 && attached == 0 {
		boundary := strings.ReplaceAll(uuid.NewString(), "-", "")
		msg.SetBoundary(boundary)
		msg.SetGenHeader(mail.HeaderContentType,
			fmt.Sprintf(`multipart/related; type="text/html"; boundary="%s"`, boundary))
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render message: %w", err)
	}
	return buf.Bytes(), nil
}

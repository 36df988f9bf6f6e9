package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"asistencia-service/internal/domain/entity"
	"asistencia-service/internal/domain/repository"
	"asistencia-service/pkg/utils"
)

// QRChannel resolves the QR reference of a ticket request into the artifact the email
// embeds.
type QRChannel interface {
	Name() string
	Resolve(ctx context.Context, req entity.TicketRequest) (entity.QRArtifact, error)
}

// NewQRChannel returns the channel for kind; blobRepo is required for the url channel
func NewQRChannel(kind string, blobRepo repository.BlobRepository) (QRChannel, error) {
	switch kind {
	case entity.ChannelInline:
		return inlineChannel{}, nil
	case entity.ChannelContentID:
		return contentIDChannel{}, nil
	case entity.ChannelPublicURL:
		if blobRepo == nil {
			return nil, entity.ErrConfiguration("S3_BUCKET")
		}
		return publicURLChannel{blobRepo: blobRepo}, nil
	default:
		return nil, fmt.Errorf("unknown qr channel %q", kind)
	}
}

// alreadyPublished passes an http(s) reference through untouched on every channel
func alreadyPublished(req entity.TicketRequest) (entity.QRArtifact, bool) {
	if utils.IsHTTPURL(req.QRURL) {
		return entity.QRArtifact{Kind: entity.ChannelPublicURL, PublicURL: req.QRURL}, true
	}
	return entity.QRArtifact{}, false
}

func decodeQR(req entity.TicketRequest) (string, []byte, error) {
	contentType, data, err := utils.DecodeDataURI(req.QRURL)
	if err != nil {
		return "", nil, entity.ErrValidation("qrUrl no es una imagen válida")
	}
	return contentType, data, nil
}

type inlineChannel struct{}

func (inlineChannel) Name() string { return entity.ChannelInline }

func (inlineChannel) Resolve(ctx context.Context, req entity.TicketRequest) (entity.QRArtifact, error) {
	if artifact, ok := alreadyPublished(req); ok {
		return artifact, nil
	}
	if _, _, err := decodeQR(req); err != nil {
		return entity.QRArtifact{}, err
	}
	return entity.QRArtifact{Kind: entity.ChannelInline, InlineData: req.QRURL}, nil
}

type contentIDChannel struct{}

func (contentIDChannel) Name() string { return entity.ChannelContentID }

func (contentIDChannel) Resolve(ctx context.Context, req entity.TicketRequest) (entity.QRArtifact, error) {
	if artifact, ok := alreadyPublished(req); ok {
		return artifact, nil
	}
	contentType, data, err := decodeQR(req)
	if err != nil {
		return entity.QRArtifact{}, err
	}
	return entity.QRArtifact{
		Kind:      entity.ChannelContentID,
		ContentID: entity.QRContentID,
		Attachment: &entity.Attachment{
			Filename:    "ticket-qr.png",
			ContentType: contentType,
			ContentID:   entity.QRContentID,
			Data:        data,
		},
	}, nil
}

type publicURLChannel struct {
	blobRepo repository.BlobRepository
}

func (publicURLChannel) Name() string { return entity.ChannelPublicURL }

func (c publicURLChannel) Resolve(ctx context.Context, req entity.TicketRequest) (entity.QRArtifact, error) {
	if artifact, ok := alreadyPublished(req); ok {
		return artifact, nil
	}
	contentType, data, err := decodeQR(req)
	if err != nil {
		return entity.QRArtifact{}, err
	}

	key := qrObjectKey(req.AttendeeID)
	if req.AttendeeID == "" {
		sum := sha256.Sum256(data)
		key = qrObjectKey(hex.EncodeToString(sum[:16]))
	}

	url, err := c.blobRepo.Upload(ctx, key, contentType, data)
	if err != nil {
		return entity.QRArtifact{}, entity.ErrCollaborator("failed to publish qr", false, err)
	}
	return entity.QRArtifact{Kind: entity.ChannelPublicURL, PublicURL: url}, nil
}

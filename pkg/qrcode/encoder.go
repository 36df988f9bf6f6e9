// Package qrcode renders attendee identifiers as scannable PNG images.
package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"

	"asistencia-service/pkg/utils"
)

const contentType = "image/png"

// Encoder renders QR codes at a fixed size
type Encoder struct {
	size int
}

// NewEncoder creates an encoder producing size x size pixel images
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = 256
	}
	return &Encoder{size: size}
}

// PNG encodes content as PNG bytes
func (e *Encoder) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content is empty")
	}
	png, err := goqrcode.Encode(content, goqrcode.Medium, e.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr: %w", err)
	}
	return png, nil
}

// DataURI encodes content as a PNG data URI
func (e *Encoder) DataURI(content string) (string, error) {
	png, err := e.PNG(content)
	if err != nil {
		return "", err
	}
	return utils.EncodeDataURI(contentType, png), nil
}

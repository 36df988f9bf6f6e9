package utils

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

var dataURIPattern = regexp.MustCompile(`^data:(image/[\w.+-]+);base64,`)

// ErrNotDataURI is returned when the input is not a base64 image data URI
var ErrNotDataURI = errors.New("value is not a base64 image data URI")

// EncodeDataURI renders data as a base64 data URI
func EncodeDataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits an image data URI into content type and bytes
func DecodeDataURI(value string) (string, []byte, error) {
	value = strings.TrimSpace(value)
	match := dataURIPattern.FindStringSubmatch(value)
	if match == nil {
		return "", nil, ErrNotDataURI
	}
	data, err := base64.StdEncoding.DecodeString(value[len(match[0]):])
	if err != nil {
		return "", nil, err
	}
	return match[1], data, nil
}

// IsHTTPURL reports whether value is an absolute http(s) URL
func IsHTTPURL(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "http://")
}

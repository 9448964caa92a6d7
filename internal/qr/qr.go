// Package qr renders the customer menu link as a QR code, so phones on the
// booth's network can open the ordering page directly.
package qr

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

// MenuURL builds the customer-facing menu link for an event.
func MenuURL(baseURL string, eventID int64) string {
	return fmt.Sprintf("%s/?event=%d", strings.TrimRight(baseURL, "/"), eventID)
}

// EncodePNG renders a URL as a QR PNG. A non-positive size falls back to
// the default edge length.
func EncodePNG(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}

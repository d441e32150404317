package tools

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRCode generates a PNG QR code of size x size pixels and returns it
// Base64 encoded.
func QRCode(content string, size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("qrcode size must be positive, got %d", size)
	}
	bytes, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

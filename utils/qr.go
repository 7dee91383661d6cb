package utils

import (
	"github.com/skip2/go-qrcode"
)

const TicketQRSize = 256

// GenerateQRCode returns a PNG QR code for content.
func GenerateQRCode(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = TicketQRSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

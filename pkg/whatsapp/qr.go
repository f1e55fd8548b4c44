package whatsapp

import (
	"encoding/base64"
	"errors"

	qrCode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

var ErrEmptyQRCode = errors.New("no QR code to render")

// EncodeQRDataURI renders a pairing QR payload as a PNG data URI.
func EncodeQRDataURI(code string) (string, error) {
	if code == "" {
		return "", ErrEmptyQRCode
	}

	png, err := qrCode.Encode(code, qrCode.Medium, qrImageSize)
	if err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

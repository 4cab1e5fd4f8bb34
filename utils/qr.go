package utils

import (
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// AccessCodeLink is the player-facing link a code's QR points to.
func AccessCodeLink(publicURL, rouletteID, code string) string {
	base := strings.TrimRight(publicURL, "/")
	q := url.Values{}
	q.Set("code", code)
	return base + "/roulette/" + url.PathEscape(rouletteID) + "?" + q.Encode()
}

// AccessCodeQR renders AccessCodeLink as a PNG.
func AccessCodeQR(publicURL, rouletteID, code string) ([]byte, error) {
	return qrcode.Encode(AccessCodeLink(publicURL, rouletteID, code), qrcode.Medium, qrSize)
}

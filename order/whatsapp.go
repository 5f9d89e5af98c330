package order

import (
	"net/url"
	"strings"
)

const whatsAppBase = "https://wa.me/"

// FormatPhoneNumber keeps only digits and then drops one leading "00"
// international prefix. "+" needs no handling since it is not a digit.
func FormatPhoneNumber(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	return strings.TrimPrefix(digits, "00")
}

// BuildWhatsAppURL returns https://wa.me/<digits>?text=<message>.
func BuildWhatsAppURL(p Params) string {
	return whatsAppBase + FormatPhoneNumber(p.PhoneNumber) + "?text=" + encodeURIComponent(BuildOrderMessage(p))
}

// encodeURIComponent escapes like the browser function of the same name:
// spaces become %20 and only A-Z a-z 0-9 - _ . ! ~ * ' ( ) stay literal.
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	return unescapeMarks.Replace(escaped)
}

var unescapeMarks = strings.NewReplacer(
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

package util

import "regexp"

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	rePhone = regexp.MustCompile(`(?:\+?91[\s-]?)?\b[6-9]\d{9}\b`)
)

// RedactPII masks lead contact details before text reaches the application log.
func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = rePhone.ReplaceAllString(s, "[redacted-phone]")
	return s
}

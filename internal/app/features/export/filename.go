// internal/app/features/export/filename.go
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Filename builds the download name:
// nexora-analytics-{scope}-{sanitized-name}-{range}-{date}.pdf
func Filename(scope, name, rangeToken string, at time.Time) string {
	return fmt.Sprintf("nexora-analytics-%s-%s-%s-%s.pdf",
		scope, sanitizeName(name), rangeToken, at.Format("2006-01-02"))
}

// sanitizeName flattens a display name into a safe filename fragment:
// lowercase, alphanumerics kept, everything else collapsed to single
// hyphens. Empty input becomes "report".
func sanitizeName(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "report"
	}
	return out
}

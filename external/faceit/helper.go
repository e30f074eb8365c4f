package faceit

import (
	"net/http"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

const maxLoggedBody = 256

func isFaceitCircuitFailure(err error) bool {
	return crerr.Is(err, errFaceitTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.Join(strings.Fields(string(raw)), " ")
	if len(body) <= maxLoggedBody {
		return body
	}
	return body[:maxLoggedBody] + "..."
}

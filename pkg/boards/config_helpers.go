package boards

import "strings"

// ConfigString returns the trimmed string value for key from board.Config or a fallback.
func ConfigString(b Board, key, fallback string) string {
	if b.Config != nil {
		if raw, ok := b.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptKey         = "accept"
	ConfigAcceptLanguageKey = "accept_language"
)

// Headers builds the static request headers from a board config (skips empty values).
func Headers(b Board) map[string]string {
	headers := make(map[string]string, 3)

	if v := ConfigString(b, ConfigUserAgentKey, ""); v != "" {
		headers["User-Agent"] = v
	}
	if v := ConfigString(b, ConfigAcceptKey, ""); v != "" {
		headers["Accept"] = v
	}
	if v := ConfigString(b, ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}

	return headers
}

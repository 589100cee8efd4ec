package services

import "strings"

// categorizeAPIError buckets an external API error for metrics labels
func categorizeAPIError(err error) string {
	if err == nil {
		return "none"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "timeout", "deadline"):
		return "timeout"
	case containsAny(msg, "rate limit", "429"):
		return "rate_limit"
	case containsAny(msg, "unauthorized", "401", "403"):
		return "auth_error"
	case containsAny(msg, "connection", "network", "refused"):
		return "connection_error"
	case containsAny(msg, "circuit breaker"):
		return "circuit_open"
	default:
		return "unknown"
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

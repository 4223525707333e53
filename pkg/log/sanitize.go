package log

import (
	"net/url"
	"strings"
)

// sensitiveKeywords mark keys whose string values are masked before logging.
var sensitiveKeywords = []string{
	"password", "passwd", "pwd",
	"secret", "token", "authorization",
	"credential", "private_key", "sasl",
}

// SanitizeField masks the value when the key looks sensitive.
// DSN and broker URL keys keep their host but lose any embedded password.
func SanitizeField(key, value string) string {
	if value == "" {
		return value
	}

	lowerKey := strings.ToLower(key)

	if strings.Contains(lowerKey, "email") {
		return sanitizeEmail(value)
	}
	if strings.Contains(lowerKey, "dsn") || strings.HasSuffix(lowerKey, "_url") {
		return sanitizeURL(value)
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return sanitizeToken(value)
		}
	}

	return value
}

// sanitizeToken shows the first and last 4 characters of long values.
func sanitizeToken(value string) string {
	if len(value) <= 8 {
		if len(value) <= 2 {
			return strings.Repeat("*", len(value))
		}
		return string(value[0]) + strings.Repeat("*", len(value)-2) + string(value[len(value)-1])
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

// sanitizeEmail keeps the first 3 characters of the local part and the domain.
func sanitizeEmail(value string) string {
	local, domain, ok := strings.Cut(value, "@")
	if !ok || strings.Contains(domain, "@") {
		return strings.Repeat("*", len(value))
	}
	if len(local) <= 3 {
		if local == "" {
			return "@" + domain
		}
		return string(local[0]) + strings.Repeat("*", len(local)-1) + "@" + domain
	}
	return local[:3] + "***@" + domain
}

// sanitizeURL removes the password from URL userinfo and from MySQL style
// "user:pass@tcp(host)/db" DSNs.
func sanitizeURL(value string) string {
	if u, err := url.Parse(value); err == nil && u.User != nil && u.Host != "" {
		return u.Redacted()
	}

	at := strings.LastIndex(value, "@")
	if at < 0 {
		return value
	}
	creds := value[:at]
	if user, _, ok := strings.Cut(creds, ":"); ok {
		return user + ":****" + value[at:]
	}
	return value
}

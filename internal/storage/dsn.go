package storage

import (
	"net/url"
	"strings"
)

// IsPostgresDSN reports whether target should be handled by the PostgreSQL store.
func IsPostgresDSN(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string carries
// a password, either in URL userinfo or as a password= DSN pair.
func HasEmbeddedCredentials(connStr string) bool {
	if IsPostgresDSN(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if _, set := u.User.Password(); set {
			return true
		}
		for key := range u.Query() {
			if strings.EqualFold(key, "password") {
				return true
			}
		}
		return false
	}

	for _, pair := range strings.Fields(connStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return true
		}
	}
	return false
}

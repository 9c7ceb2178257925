package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// dsnParam looks up key (case-insensitive) in a postgres:// URL query or a
// space-separated key=value DSN.
func dsnParam(connStr, key string) (string, bool) {
	if storage.IsPostgresDSN(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return "", false
		}
		for k, v := range u.Query() {
			if strings.EqualFold(k, key) && len(v) > 0 {
				return v[0], true
			}
		}
		return "", false
	}
	for _, field := range strings.Fields(connStr) {
		k, v, ok := strings.Cut(field, "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), key) {
			return v, true
		}
	}
	return "", false
}

// withSearchPath pins the connection to the dayspent schema unless the
// caller already chose one.
func withSearchPath(connStr string) (string, error) {
	if _, ok := dsnParam(connStr, "search_path"); ok {
		return connStr, nil
	}
	if !storage.IsPostgresDSN(connStr) {
		return strings.TrimSpace(connStr) + " search_path=" + constants.AppName, nil
	}
	u, err := url.Parse(connStr)
	if err != nil {
		return connStr, err
	}
	q := u.Query()
	q.Set("search_path", constants.AppName)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ValidateConnString reports whether connStr is a usable URL or DSN with no
// password in it. ErrEmbeddedCredentials is returned for the password case.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if !storage.IsPostgresDSN(connStr) {
		if _, ok := dsnParam(connStr, "password"); ok {
			return false, ErrEmbeddedCredentials
		}
		return true, nil
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
	}
	if _, ok := u.User.Password(); ok {
		return false, ErrEmbeddedCredentials
	}
	if _, ok := dsnParam(connStr, "password"); ok {
		return false, ErrEmbeddedCredentials
	}
	if u.Host == "" && u.User == nil && strings.Trim(u.Path, "/") == "" {
		return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
	}
	return true, nil
}

// uniqueViolation returns the violated constraint name for a unique_violation error.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return pqErr.Constraint, true
	}
	return "", false
}

// MaskConnString replaces any password in connStr with ****.
func MaskConnString(connStr string) string {
	const mask = "****"
	if !storage.IsPostgresDSN(connStr) {
		fields := strings.Fields(connStr)
		for i, f := range fields {
			if k, _, ok := strings.Cut(f, "="); ok && strings.EqualFold(k, "password") {
				fields[i] = k + "=" + mask
			}
		}
		return strings.Join(fields, " ")
	}

	scheme, rest, _ := strings.Cut(connStr, "://")
	rest, query, hasQuery := strings.Cut(rest, "?")
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		if user, _, ok := strings.Cut(rest[:at], ":"); ok {
			rest = user + ":" + mask + rest[at:]
		}
	}
	out := scheme + "://" + rest
	if !hasQuery {
		return out
	}
	params := strings.Split(query, "&")
	for i, p := range params {
		if k, _, ok := strings.Cut(p, "="); ok && strings.EqualFold(k, "password") {
			params[i] = k + "=" + mask
		}
	}
	return out + "?" + strings.Join(params, "&")
}

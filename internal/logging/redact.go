// Package logging holds helpers for keeping personal data out of log lines.
package logging

import "strings"

// RedactEmail masks the local part of an email address: "ana.perez@example.com" becomes
// "an***@example.com". Local parts of two bytes or fewer are fully masked and anything that
// is not a single-@ address becomes "***@***".
func RedactEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "***@***"
	}
	if len(local) > 2 {
		return local[:2] + "***@" + domain
	}
	return "***@" + domain
}

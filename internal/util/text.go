package util

import "strings"

// SanitizePostgresText strips null bytes and invalid UTF-8 so extracted
// document text can be stored in Postgres text columns.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

package service

import "strings"

// normalizeID trims identifiers received from clients. Inner whitespace is
// kept because building ids like "Main Hall" are legal.
func normalizeID(id string) string {
	return strings.TrimSpace(id)
}

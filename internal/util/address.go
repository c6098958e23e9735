package util

import (
	"net/mail"
	"strings"
)

// NormalizeAddress extracts and normalizes an email address from a header
// value like "Name <User@Example.COM>". Lowercases; returns empty string if
// nothing parseable is found.
func NormalizeAddress(header string) string {
	if header == "" {
		return ""
	}
	addr, err := mail.ParseAddress(header)
	if err != nil || addr == nil {
		// Header may be a list; fall back to the first parseable entry.
		for _, p := range strings.Split(header, ",") {
			a, e := mail.ParseAddress(strings.TrimSpace(p))
			if e == nil && a != nil {
				addr = a
				break
			}
		}
		if addr == nil {
			return ""
		}
	}
	return strings.ToLower(strings.TrimSpace(addr.Address))
}

// Domain returns the lowercase domain part of an email address, or empty
// string when the input has no "@".
func Domain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

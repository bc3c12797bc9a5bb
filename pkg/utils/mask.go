package utils

import "strings"

// MaskToken redacts the middle of an access token, keeping four characters on
// each end so runs can still be correlated with server logs. Tokens too short
// to keep anything are masked entirely.
func MaskToken(token string) string {
	const keep = 4
	r := []rune(token)
	if len(r) <= keep*2 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:keep]) + "..." + string(r[len(r)-keep:])
}

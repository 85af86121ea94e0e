package auth

import (
	"fmt"
	"net"
)

// CanonicalizeIP converts an IP address to its canonical 16-byte string representation.
// "2001:db8::1" and "2001:db8:0:0:0:0:0:1" both produce the same output, so
// per-client limits cannot be dodged by rewriting the address.
func CanonicalizeIP(ip string) (string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}

	// IPv4 addresses will be represented as IPv4-mapped IPv6 addresses
	canonical := parsed.To16()
	if canonical == nil {
		return "", fmt.Errorf("failed to canonicalize IP address: %s", ip)
	}

	return canonical.String(), nil
}

// ClientKey identifies the caller for rate limiting: the user id when
// authenticated, otherwise the canonical client IP.
func ClientKey(userID, ip string) string {
	if userID != "" {
		return "user:" + userID
	}
	if canonical, err := CanonicalizeIP(ip); err == nil {
		return "ip:" + canonical
	}
	return "ip:" + ip
}

package domain

import (
	"fmt"
	"strings"

	"braces.dev/errtrace"
)

const upperhex = "0123456789ABCDEF"

type component int

const (
	componentPath component = iota
	componentQueryOrFragment
)

// FilterPath percent-encodes every byte of a raw path that is neither an
// unreserved character, a sub-delimiter, ':', '@', '/' nor part of a valid
// percent-triplet. The result is stable under repeated filtering.
func FilterPath(path string) string {
	return filter(path, componentPath)
}

// FilterQueryOrFragment behaves like FilterPath and additionally leaves '?'
// untouched, since both may appear literally in a query or a fragment.
func FilterQueryOrFragment(value string) string {
	return filter(value, componentQueryOrFragment)
}

// FilterPort validates the port and drops it when it is the scheme's
// well-known default.
func FilterPort(port int, hasPort bool, scheme string) (int, bool, error) {
	if !hasPort {
		return 0, false, nil
	}

	if port < MinPort || port > MaxPort {
		return 0, false, errtrace.Wrap(fmt.Errorf("%w: %d (must be within [%d, %d])", ErrInvalidPort, port, MinPort, MaxPort))
	}

	if known, ok := defaultPorts[scheme]; ok && known == port {
		return 0, false, nil
	}

	return port, true, nil
}

func filter(s string, c component) string {
	i := 0
	for i < len(s) {
		if isPercentTriplet(s, i) {
			i += 3
			continue
		}
		if !shouldEscape(s[i], c) {
			i++
			continue
		}
		break
	}
	if i == len(s) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2*(len(s)-i))
	sb.WriteString(s[:i])

	for i < len(s) {
		b := s[i]
		switch {
		case isPercentTriplet(s, i):
			sb.WriteString(s[i : i+3])
			i += 3
			continue
		case shouldEscape(b, c):
			sb.WriteByte('%')
			sb.WriteByte(upperhex[b>>4])
			sb.WriteByte(upperhex[b&0x0f])
		default:
			sb.WriteByte(b)
		}
		i++
	}

	return sb.String()
}

func isPercentTriplet(s string, i int) bool {
	return s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2])
}

func shouldEscape(b byte, c component) bool {
	if isUnreserved(b) || isSubDelim(b) {
		return false
	}

	switch b {
	case ':', '@', '/':
		return false
	case '?':
		return c == componentPath
	}

	return true
}

func isUnreserved(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}

	switch b {
	case '-', '.', '_', '~':
		return true
	}

	return false
}

func isSubDelim(b byte) bool {
	switch b {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}

	return false
}

func isHex(b byte) bool {
	switch {
	case '0' <= b && b <= '9', 'a' <= b && b <= 'f', 'A' <= b && b <= 'F':
		return true
	}

	return false
}

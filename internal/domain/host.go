package domain

import "strings"

const hostPartSeparator = "."

// HostClass is the routability category of a host.
type HostClass int

const (
	HostClassUnparseable HostClass = iota
	HostClassPublic
	HostClassPrivate
	HostClassLoopback
	HostClassUnroutable
)

func (hc HostClass) String() string {
	switch hc {
	case HostClassPublic:
		return "public"
	case HostClassPrivate:
		return "private"
	case HostClassLoopback:
		return "loopback"
	case HostClassUnroutable:
		return "unroutable"
	default:
		return "unparseable"
	}
}

// IsPubliclyRoutable treats unparseable hosts as routable.
func (hc HostClass) IsPubliclyRoutable() bool {
	switch hc {
	case HostClassPrivate, HostClassLoopback, HostClassUnroutable:
		return false
	default:
		return true
	}
}

// HostParts splits a host into its dot-separated labels.
func HostParts(host string) []string {
	return strings.Split(host, hostPartSeparator)
}

// JoinHostParts is the inverse of HostParts.
func JoinHostParts(parts []string) string {
	return strings.Join(parts, hostPartSeparator)
}

// IsMalformedHostname reports whether a (non-IP) host name lacks a dot or
// starts or ends with one.
func IsMalformedHostname(host string) bool {
	return !strings.Contains(host, hostPartSeparator) ||
		strings.HasPrefix(host, hostPartSeparator) ||
		strings.HasSuffix(host, hostPartSeparator)
}

// PunycodeEncoder converts a host to its ASCII form.
type PunycodeEncoder interface {
	ToPunycode(host string) string
}

// HostsEquivalent compares two hosts by their punycode forms, so a Unicode
// host and its ASCII-encoded twin are equivalent.
func HostsEquivalent(a, b string, encoder PunycodeEncoder) bool {
	if a == b {
		return true
	}
	if encoder == nil {
		return false
	}
	return encoder.ToPunycode(a) == encoder.ToPunycode(b)
}

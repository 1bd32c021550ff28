package routability

import (
	"net/netip"
	"strings"

	"github.com/kerim-dauren/urikit/internal/domain"
)

var (
	loopbackV4 = netip.MustParsePrefix("127.0.0.0/8")

	privateV4 = []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("172.16.0.0/12"),
		netip.MustParsePrefix("192.168.0.0/16"),
	}

	// Special-purpose IPv4 blocks that are never reachable on the public internet.
	unroutableV4 = []netip.Prefix{
		netip.MustParsePrefix("0.0.0.0/8"),
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("127.0.0.0/8"),
		netip.MustParsePrefix("169.254.0.0/16"),
		netip.MustParsePrefix("172.16.0.0/12"),
		netip.MustParsePrefix("192.0.0.0/24"),
		netip.MustParsePrefix("192.0.2.0/24"),
		netip.MustParsePrefix("192.88.99.0/24"),
		netip.MustParsePrefix("192.168.0.0/16"),
		netip.MustParsePrefix("198.18.0.0/15"),
		netip.MustParsePrefix("198.51.100.0/24"),
		netip.MustParsePrefix("203.0.113.0/24"),
		netip.MustParsePrefix("224.0.0.0/4"),
		netip.MustParsePrefix("240.0.0.0/4"),
		netip.MustParsePrefix("255.255.255.255/32"),
	}
)

// Classifier reports whether a host literal is an IP address and, if so,
// which routability class it belongs to.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns HostClassUnparseable for anything that is not an IP
// literal, including ordinary host names.
func (c *Classifier) Classify(host string) domain.HostClass {
	addr, ok := parseAddr(host)
	if !ok {
		return domain.HostClassUnparseable
	}

	if addr.Is4() {
		return classifyV4(addr)
	}
	return classifyV6(addr)
}

func parseAddr(host string) (netip.Addr, bool) {
	host = strings.TrimSpace(host)
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	if host == "" {
		return netip.Addr{}, false
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}

	return addr.Unmap(), true
}

func classifyV4(addr netip.Addr) domain.HostClass {
	if loopbackV4.Contains(addr) {
		return domain.HostClassLoopback
	}

	for _, prefix := range privateV4 {
		if prefix.Contains(addr) {
			return domain.HostClassPrivate
		}
	}

	for _, prefix := range unroutableV4 {
		if prefix.Contains(addr) {
			return domain.HostClassUnroutable
		}
	}

	return domain.HostClassPublic
}

func classifyV6(addr netip.Addr) domain.HostClass {
	switch {
	case addr.IsLoopback():
		return domain.HostClassLoopback
	case addr.IsPrivate():
		return domain.HostClassPrivate
	case addr.IsUnspecified(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast():
		return domain.HostClassUnroutable
	default:
		return domain.HostClassPublic
	}
}

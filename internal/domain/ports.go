package domain

const (
	MinPort = 0
	MaxPort = 65535
)

var defaultPorts = map[string]int{
	"http":   80,
	"https":  443,
	"ftp":    21,
	"gopher": 70,
	"nntp":   119,
	"news":   119,
	"telnet": 23,
	"tn3270": 23,
	"imap":   143,
	"pop":    110,
	"ldap":   389,
}

// DefaultPort returns the well-known port for the scheme.
func DefaultPort(scheme string) (int, bool) {
	port, ok := defaultPorts[scheme]
	return port, ok
}

// IsDefaultPort reports whether an unset port, or a port equal to the
// scheme's well-known one, can be dropped without changing the URI.
func IsDefaultPort(scheme string, port int, hasPort bool) bool {
	if !hasPort {
		return true
	}

	known, ok := defaultPorts[scheme]
	return ok && known == port
}

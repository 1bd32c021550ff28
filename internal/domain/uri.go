package domain

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"
)

// URI is an immutable URI value. Every With* method returns a new URI, or the
// receiver unchanged when the target value is already current, so callers may
// rely on pointer equality to detect a no-op.
type URI struct {
	scheme   string
	userInfo string
	host     string
	port     int
	hasPort  bool
	path     string
	query    string
	fragment string
}

// NewURI parses rawURL tolerantly. The only failure is a port outside
// [MinPort, MaxPort], reported as ErrInvalidPort.
func NewURI(rawURL string) (*URI, error) {
	c := Parse(rawURL)

	userInfo := NewUserInfo(c.User, c.Pass)

	return errtrace.Wrap2(applyComponents(
		c.Scheme,
		userInfo.String(),
		c.Host,
		c.Port,
		c.Has(ComponentPort),
		c.Path,
		c.Query,
		c.Fragment,
	))
}

// MustURI is like NewURI but panics on error.
func MustURI(rawURL string) *URI {
	u, err := NewURI(rawURL)
	if err != nil {
		panic(err)
	}
	return u
}

// Compose assembles a URI string from parts and parses it. The result goes
// through the same tolerant parsing as NewURI, so it is not guaranteed to be
// byte-identical to a hand-assembled string.
func Compose(scheme, authority, path, query, fragment string) (*URI, error) {
	var sb strings.Builder

	if scheme != "" {
		sb.WriteString(scheme)
		sb.WriteByte(':')
	}

	if authority != "" {
		sb.WriteString(protocolRelativeStart)
		sb.WriteString(authority)
	}

	if sb.Len() > 0 && path != "" && path[0] != '/' {
		path = "/" + path
	}

	sb.WriteString(path)
	sb.WriteByte(queryDelimiter)
	sb.WriteString(query)
	sb.WriteByte(fragmentDelimiter)
	sb.WriteString(fragment)

	return errtrace.Wrap2(NewURI(sb.String()))
}

func applyComponents(
	scheme string,
	userInfo string,
	host string,
	port int,
	hasPort bool,
	path string,
	query string,
	fragment string,
) (*URI, error) {
	u := &URI{
		scheme:   strings.ToLower(scheme),
		userInfo: userInfo,
		host:     strings.ToLower(host),
		path:     FilterPath(path),
		query:    FilterQueryOrFragment(query),
		fragment: FilterQueryOrFragment(fragment),
	}

	var err error
	u.port, u.hasPort, err = FilterPort(port, hasPort, u.scheme)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	return u, nil
}

// derive copies u with one component replaced. The port of u is already in
// range, so only WithPort can make applyComponents fail.
func (u *URI) derive(mutate func(c *URI)) *URI {
	c := *u
	mutate(&c)

	derived, err := applyComponents(c.scheme, c.userInfo, c.host, c.port, c.hasPort, c.path, c.query, c.fragment)
	if err != nil {
		panic(err)
	}
	return derived
}

func (u *URI) Scheme() string {
	return u.scheme
}

// Authority returns "[userinfo@]host[:port]".
func (u *URI) Authority() string {
	authority := u.host
	if u.userInfo != "" {
		authority = u.userInfo + "@" + authority
	}

	if u.hasPort {
		authority += ":" + strconv.Itoa(u.port)
	}

	return authority
}

func (u *URI) UserInfo() string {
	return u.userInfo
}

func (u *URI) Host() string {
	return u.host
}

func (u *URI) Port() (int, bool) {
	return u.port, u.hasPort
}

func (u *URI) Path() string {
	return u.path
}

func (u *URI) Query() string {
	return u.query
}

func (u *URI) Fragment() string {
	return u.fragment
}

func (u *URI) WithScheme(scheme string) *URI {
	scheme = strings.TrimSpace(strings.ToLower(scheme))
	if u.scheme == scheme {
		return u
	}

	return u.derive(func(c *URI) { c.scheme = scheme })
}

// WithUserInfo replaces the user info; an empty user and password remove it.
func (u *URI) WithUserInfo(user, password string) *URI {
	userInfo := NewUserInfo(user, password).String()
	if u.userInfo == userInfo {
		return u
	}

	return u.derive(func(c *URI) { c.userInfo = userInfo })
}

func (u *URI) WithHost(host string) *URI {
	host = strings.TrimSpace(strings.ToLower(host))
	if u.host == host {
		return u
	}

	return u.derive(func(c *URI) { c.host = host })
}

// WithPort sets the port. A port outside [MinPort, MaxPort] yields
// ErrInvalidPort; the scheme's default port is stored as no port.
func (u *URI) WithPort(port int) (*URI, error) {
	if u.hasPort && u.port == port {
		return u, nil
	}

	return errtrace.Wrap2(applyComponents(u.scheme, u.userInfo, u.host, port, true, u.path, u.query, u.fragment))
}

func (u *URI) WithoutPort() *URI {
	if !u.hasPort {
		return u
	}

	return u.derive(func(c *URI) { c.port, c.hasPort = 0, false })
}

func (u *URI) WithPath(path string) *URI {
	path = FilterPath(path)
	if u.path == path {
		return u
	}

	return u.derive(func(c *URI) { c.path = path })
}

func (u *URI) WithQuery(query string) *URI {
	query = FilterQueryOrFragment(query)
	if u.query == query {
		return u
	}

	return u.derive(func(c *URI) { c.query = query })
}

func (u *URI) WithFragment(fragment string) *URI {
	fragment = FilterQueryOrFragment(fragment)
	if u.fragment == fragment {
		return u
	}

	return u.derive(func(c *URI) { c.fragment = fragment })
}

// Equal reports whether both URIs hold the same components.
func (u *URI) Equal(other *URI) bool {
	if u == other {
		return true
	}
	if u == nil || other == nil {
		return false
	}
	return *u == *other
}

func (u *URI) String() string {
	var sb strings.Builder

	if u.scheme != "" {
		sb.WriteString(u.scheme)
		sb.WriteByte(':')
	}

	authority := u.Authority()
	if authority != "" || u.scheme == fileScheme {
		sb.WriteString(protocolRelativeStart)
		sb.WriteString(authority)
	}

	path := u.path
	switch {
	case authority != "" && path != "" && path[0] != '/':
		path = "/" + path
	case authority == "" && strings.HasPrefix(path, protocolRelativeStart):
		path = "/" + strings.TrimLeft(path, "/")
	}
	sb.WriteString(path)

	if u.query != "" {
		sb.WriteByte(queryDelimiter)
		sb.WriteString(u.query)
	}

	if u.fragment != "" {
		sb.WriteByte(fragmentDelimiter)
		sb.WriteString(u.fragment)
	}

	return sb.String()
}

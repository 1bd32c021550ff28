package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	queryDelimiter    = '?'
	fragmentDelimiter = '#'

	protocolRelativeStart = "//"
	placeholderScheme     = "dummy"
	fileScheme            = "file"

	maxBarePortDigits = 5
)

// Component identifies one part of a parsed URI.
type Component uint8

const (
	ComponentScheme Component = 1 << iota
	ComponentUser
	ComponentPass
	ComponentHost
	ComponentPort
	ComponentPath
	ComponentQuery
	ComponentFragment
)

var (
	schemeOnlyRegex   = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.\-]+://$`)
	trailingPortRegex = regexp.MustCompile(`:-?[0-9]+$`)
)

// Components is the result of Parse. A component is present only when
// Has reports it; an absent path and an empty path are not the same thing.
type Components struct {
	Scheme   string
	User     string
	Pass     string
	Host     string
	Port     int
	Path     string
	Query    string
	Fragment string

	present Component
}

func (c Components) Has(component Component) bool {
	return c.present&component != 0
}

func (c Components) IsEmpty() bool {
	return c.present == 0
}

// componentMap holds raw component values while strategies are tried; the
// port is still a digit string at this stage.
type componentMap map[Component]string

type parseStrategy func(url string) componentMap

// Tried in order after the strict split fails; the first non-empty result wins.
var fallbackStrategies = []parseStrategy{
	parseSchemeOnly,
	parseInvalidPortWithPath,
	parseInvalidPortWithQuery,
	parseInvalidPortWithFragment,
	parseTrailingPort,
}

// Parse splits a raw URL into its components. It never fails: input that
// cannot be split at all yields empty Components. Port range checking is
// left to the URI constructor.
func Parse(rawURL string) Components {
	url := normalizeWhitespace(rawURL)

	if strings.HasPrefix(url, protocolRelativeStart) {
		url = placeholderScheme + ":" + url
	}

	raw := parseComponents(url)

	if strings.HasSuffix(url, string(fragmentDelimiter)) {
		raw[ComponentFragment] = ""
	}

	if scheme, ok := raw[ComponentScheme]; ok && scheme == placeholderScheme {
		delete(raw, ComponentScheme)
	}

	return raw.components()
}

// normalizeWhitespace trims the input and removes tabs and line breaks
// anywhere in it, as browsers do.
func normalizeWhitespace(url string) string {
	url = strings.Trim(url, " \t\n\r\x00\x0b")

	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\r', '\n':
			return -1
		}
		return r
	}, url)
}

func parseComponents(url string) componentMap {
	if c, ok := splitURL(url); ok {
		return c
	}

	for _, strategy := range fallbackStrategies {
		if c := strategy(url); len(c) > 0 {
			return c
		}
	}

	return componentMap{}
}

// splitURL is the strict splitter. It fails on an authority it cannot
// make sense of, most notably a port that is not a number in range.
func splitURL(url string) (componentMap, bool) {
	c := componentMap{}
	rest := url

	if scheme, after, ok := cutScheme(url); ok {
		if port, path, isPort := cutBarePort(after); isPort {
			c[ComponentHost] = scheme
			c[ComponentPort] = port
			c[ComponentPath] = path
			return c, true
		}
		c[ComponentScheme] = scheme
		rest = after
	}

	if strings.HasPrefix(rest, protocolRelativeStart) {
		authority := rest[len(protocolRelativeStart):]
		end := strings.IndexAny(authority, "/?#")
		if end < 0 {
			end = len(authority)
		}
		authority, rest = authority[:end], authority[end:]

		if authority == "" {
			if c[ComponentScheme] != fileScheme || rest == "" {
				return nil, false
			}
		} else if !splitAuthority(authority, c) {
			return nil, false
		}
	}

	if i := strings.IndexByte(rest, fragmentDelimiter); i >= 0 {
		if fragment := rest[i+1:]; fragment != "" {
			c[ComponentFragment] = fragment
		}
		rest = rest[:i]
	}

	if i := strings.IndexByte(rest, queryDelimiter); i >= 0 {
		if query := rest[i+1:]; query != "" {
			c[ComponentQuery] = query
		}
		rest = rest[:i]
	}

	c[ComponentPath] = rest

	return c, true
}

func cutScheme(url string) (scheme, rest string, ok bool) {
	for i := 0; i < len(url); i++ {
		b := url[i]
		switch {
		case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z':
		case '0' <= b && b <= '9', b == '+', b == '-', b == '.':
			if i == 0 {
				return "", url, false
			}
		case b == ':':
			if i == 0 {
				return "", url, false
			}
			return url[:i], url[i+1:], true
		default:
			return "", url, false
		}
	}
	return "", url, false
}

// cutBarePort recognizes the "host:port" form, as in "example.com:8080" or
// "localhost:80/path": up to five digits followed by the end or a path.
func cutBarePort(rest string) (port, path string, ok bool) {
	end := 0
	for end < len(rest) && '0' <= rest[end] && rest[end] <= '9' {
		end++
	}

	if end == 0 || end > maxBarePortDigits {
		return "", "", false
	}
	if end < len(rest) && rest[end] != '/' {
		return "", "", false
	}

	return rest[:end], rest[end:], true
}

func splitAuthority(authority string, c componentMap) bool {
	hostport := authority
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		user, pass, hasPass := strings.Cut(authority[:i], userPassDelimiter)
		c[ComponentUser] = user
		if hasPass {
			c[ComponentPass] = pass
		}
		hostport = authority[i+1:]
	}

	host, port := hostport, ""
	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return false
		}
		host = hostport[:end+1]
		if after := hostport[end+1:]; after != "" {
			if after[0] != ':' {
				return false
			}
			port = after[1:]
		}
	} else if i := strings.LastIndexByte(hostport, ':'); i >= 0 {
		host, port = hostport[:i], hostport[i+1:]
	}

	if host == "" {
		return false
	}

	if port != "" {
		if !isDigits(port) {
			return false
		}
		if n, err := strconv.Atoi(port); err != nil || n > MaxPort {
			return false
		}
		c[ComponentPort] = port
	}

	c[ComponentHost] = host

	return true
}

func parseSchemeOnly(url string) componentMap {
	if !schemeOnlyRegex.MatchString(url) {
		return nil
	}
	return componentMap{ComponentScheme: strings.TrimSuffix(url, "://")}
}

func parseInvalidPortWithPath(url string) componentMap {
	offset := 0
	if i := strings.Index(url, protocolRelativeStart); i >= 0 {
		offset = i + len(protocolRelativeStart)
	}

	i := strings.IndexByte(url[offset:], '/')
	if i < 0 {
		return nil
	}

	return parseTrailingPortWithSuffix(url, offset+i)
}

func parseInvalidPortWithQuery(url string) componentMap {
	queryPos := strings.IndexByte(url, queryDelimiter)
	if queryPos < 0 {
		return nil
	}

	if fragmentPos := strings.IndexByte(url, fragmentDelimiter); fragmentPos >= 0 && fragmentPos < queryPos {
		return nil
	}

	return parseTrailingPortWithSuffix(url, queryPos)
}

func parseInvalidPortWithFragment(url string) componentMap {
	fragmentPos := strings.IndexByte(url, fragmentDelimiter)
	if fragmentPos < 0 {
		return nil
	}

	return parseTrailingPortWithSuffix(url, fragmentPos)
}

func parseTrailingPort(url string) componentMap {
	return extractTrailingPort(url, "")
}

func parseTrailingPortWithSuffix(url string, suffixPos int) componentMap {
	return extractTrailingPort(url[:suffixPos], url[suffixPos:])
}

// extractTrailingPort removes a ":digits" ending from prefix, splits the
// remainder joined with suffix, and injects the removed digits as the port.
// A sign is kept so that negative ports reach range validation.
func extractTrailingPort(prefix, suffix string) componentMap {
	loc := trailingPortRegex.FindStringIndex(prefix)
	if loc == nil {
		return nil
	}

	c, ok := splitURL(prefix[:loc[0]] + suffix)
	if !ok {
		c = componentMap{}
	}
	c[ComponentPort] = prefix[loc[0]+1:]

	return c
}

func (m componentMap) components() Components {
	var c Components

	for component, value := range m {
		switch component {
		case ComponentScheme:
			c.Scheme = value
		case ComponentUser:
			c.User = value
		case ComponentPass:
			c.Pass = value
		case ComponentHost:
			c.Host = value
		case ComponentPort:
			c.Port = coercePort(value)
		case ComponentPath:
			if value == "" {
				continue
			}
			c.Path = value
		case ComponentQuery:
			c.Query = value
		case ComponentFragment:
			c.Fragment = value
		}
		c.present |= component
	}

	return c
}

// coercePort converts a signed digit string; values that do not fit an int
// saturate so that range validation still rejects them.
func coercePort(port string) int {
	n, err := strconv.Atoi(port)
	if err != nil {
		return math.MaxInt
	}
	return n
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

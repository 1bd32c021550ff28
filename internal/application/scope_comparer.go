package application

import (
	"slices"
	"strings"

	"github.com/kerim-dauren/urikit/internal/domain"
)

// ScopeComparer decides whether one URI falls within the scope of another.
// Port, user info, query and fragment are ignored. Register equivalence
// sets before sharing a comparer between goroutines.
type ScopeComparer struct {
	equivalentSchemes [][]string
	equivalentHosts   [][]string
	encoder           domain.PunycodeEncoder
}

// NewScopeComparer returns a comparer with no equivalence sets. Hosts are
// equivalent only when identical or registered in the same set.
func NewScopeComparer() *ScopeComparer {
	return &ScopeComparer{}
}

// UsePunycodeEquivalence additionally treats a Unicode host and its punycode
// form as equivalent. A nil encoder turns this off again.
func (sc *ScopeComparer) UsePunycodeEquivalence(encoder domain.PunycodeEncoder) {
	sc.encoder = encoder
}

// AddEquivalentSchemes registers a set of mutually equivalent schemes.
func (sc *ScopeComparer) AddEquivalentSchemes(schemes ...string) {
	sc.equivalentSchemes = append(sc.equivalentSchemes, lowerAll(schemes))
}

// AddEquivalentHosts registers a set of mutually equivalent hosts.
func (sc *ScopeComparer) AddEquivalentHosts(hosts ...string) {
	sc.equivalentHosts = append(sc.equivalentHosts, lowerAll(hosts))
}

// IsInScope reports whether comparator is within the scope of source: the
// same URI, a string extension of it, or a URI with equivalent scheme and
// host whose path extends the source path.
func (sc *ScopeComparer) IsInScope(source, comparator *domain.URI) bool {
	source = withoutIgnoredComponents(source)
	comparator = withoutIgnoredComponents(comparator)

	sourceString := source.String()
	comparatorString := comparator.String()

	if sourceString == comparatorString {
		return true
	}

	if strings.HasPrefix(comparatorString, sourceString) {
		return true
	}

	if !equivalentIn(source.Scheme(), comparator.Scheme(), sc.equivalentSchemes) {
		return false
	}

	if !sc.hostsEquivalent(source.Host(), comparator.Host()) {
		return false
	}

	return source.Path() == "" || strings.HasPrefix(comparator.Path(), source.Path())
}

func (sc *ScopeComparer) hostsEquivalent(source, comparator string) bool {
	if equivalentIn(source, comparator, sc.equivalentHosts) {
		return true
	}
	return domain.HostsEquivalent(source, comparator, sc.encoder)
}

func equivalentIn(source, comparator string, sets [][]string) bool {
	if source == comparator {
		return true
	}

	for _, set := range sets {
		if slices.Contains(set, source) && slices.Contains(set, comparator) {
			return true
		}
	}

	return false
}

func withoutIgnoredComponents(u *domain.URI) *domain.URI {
	return u.
		WithoutPort().
		WithUserInfo("", "").
		WithQuery("").
		WithFragment("")
}

func lowerAll(values []string) []string {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return lowered
}

package application

import (
	"log/slog"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/kerim-dauren/urikit/internal/domain"
)

var dereferenceableSchemes = []string{"http", "https"}

// LinkService canonicalizes links found by a crawler and answers identity,
// scope and reachability questions about them.
type LinkService struct {
	normalizer URINormalizer
	policy     NormalizationPolicy
	scope      *ScopeComparer
	inspector  *Inspector
	codec      PunycodeCodec
	store      LinkStore
	logger     *slog.Logger
}

func NewLinkService(
	normalizer URINormalizer,
	policy NormalizationPolicy,
	scope *ScopeComparer,
	inspector *Inspector,
	codec PunycodeCodec,
	store LinkStore,
	logger *slog.Logger,
) *LinkService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LinkService{
		normalizer: normalizer,
		policy:     policy,
		scope:      scope,
		inspector:  inspector,
		codec:      codec,
		store:      store,
		logger:     logger,
	}
}

// Canonicalize parses rawURL and applies the service's normalization policy.
func (ls *LinkService) Canonicalize(rawURL string) (*domain.URI, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, errtrace.Wrap(domain.ErrEmptyURI)
	}

	u, err := domain.NewURI(rawURL)
	if err != nil {
		ls.logger.Debug("Link rejected", "url", rawURL, "error", err)
		return nil, errtrace.Wrap(err)
	}

	return ls.normalizer.Normalize(u, ls.policy.Flags, ls.policy.Options), nil
}

func (ls *LinkService) CanonicalString(rawURL string) (string, error) {
	u, err := ls.Canonicalize(rawURL)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return u.String(), nil
}

// Equivalent reports whether both links canonicalize to the same string.
func (ls *LinkService) Equivalent(a, b string) (bool, error) {
	ca, err := ls.CanonicalString(a)
	if err != nil {
		return false, errtrace.Wrap(err)
	}

	cb, err := ls.CanonicalString(b)
	if err != nil {
		return false, errtrace.Wrap(err)
	}

	return ca == cb, nil
}

// InScope canonicalizes both links and compares them with the service's
// ScopeComparer.
func (ls *LinkService) InScope(source, candidate string) (bool, error) {
	su, err := ls.Canonicalize(source)
	if err != nil {
		return false, errtrace.Wrap(err)
	}

	cu, err := ls.Canonicalize(candidate)
	if err != nil {
		return false, errtrace.Wrap(err)
	}

	return ls.scope.IsInScope(su, cu), nil
}

// Dereferenceable reports whether a crawler could fetch rawURL: an absolute
// http(s) link to a publicly routable host.
func (ls *LinkService) Dereferenceable(rawURL string) (bool, error) {
	u, err := ls.Canonicalize(rawURL)
	if err != nil {
		return false, errtrace.Wrap(err)
	}

	switch {
	case ls.inspector.IsProtocolRelative(u):
		return false, nil
	case !isDereferenceableScheme(u.Scheme()):
		return false, nil
	case ls.inspector.IsNotPubliclyRoutable(u):
		ls.logger.Debug("Link not publicly routable", "url", u.String(), "host", u.Host())
		return false, nil
	default:
		return true, nil
	}
}

// Display renders the canonical link with its host decoded from punycode.
func (ls *LinkService) Display(rawURL string) (string, error) {
	u, err := ls.Canonicalize(rawURL)
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	return u.WithHost(ls.codec.FromPunycode(u.Host())).String(), nil
}

// Visit records the canonical form of rawURL and reports whether it had not
// been visited before.
func (ls *LinkService) Visit(rawURL string) (string, bool, error) {
	canonical, err := ls.CanonicalString(rawURL)
	if err != nil {
		return "", false, errtrace.Wrap(err)
	}

	return canonical, ls.store.Record(canonical), nil
}

func (ls *LinkService) Visited(rawURL string) (bool, error) {
	canonical, err := ls.CanonicalString(rawURL)
	if err != nil {
		return false, errtrace.Wrap(err)
	}

	return ls.store.Seen(canonical), nil
}

// VisitedUnder reports whether any visited link has the canonical form of
// prefixURL as a string prefix.
func (ls *LinkService) VisitedUnder(prefixURL string) (bool, error) {
	canonical, err := ls.CanonicalString(prefixURL)
	if err != nil {
		return false, errtrace.Wrap(err)
	}

	return ls.store.HasPrefix(canonical), nil
}

func (ls *LinkService) Stats() *LinkStats {
	stats := ls.store.Stats()

	return &LinkStats{
		Links:           stats.Links,
		ExpectedLinks:   stats.ExpectedLinks,
		BloomFilterSize: stats.BloomFilterSize,
		LastUpdate:      stats.LastUpdate.Format(time.RFC3339),
		Flags:           ls.policy.Flags.String(),
	}
}

func (ls *LinkService) Reset() {
	ls.store.Clear()
}

func isDereferenceableScheme(scheme string) bool {
	for _, s := range dereferenceableSchemes {
		if s == scheme {
			return true
		}
	}
	return false
}

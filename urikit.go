package urikit

import (
	"io"
	"log/slog"

	"braces.dev/errtrace"

	"github.com/kerim-dauren/urikit/internal/application"
	"github.com/kerim-dauren/urikit/internal/domain"
	"github.com/kerim-dauren/urikit/internal/infrastructure/config"
	"github.com/kerim-dauren/urikit/internal/infrastructure/idna"
	"github.com/kerim-dauren/urikit/internal/infrastructure/normalizer"
	"github.com/kerim-dauren/urikit/internal/infrastructure/routability"
	"github.com/kerim-dauren/urikit/internal/infrastructure/storage"
)

type (
	URI                 = domain.URI
	UserInfo            = domain.UserInfo
	Path                = domain.Path
	HostClass           = domain.HostClass
	Flags               = normalizer.Flags
	Options             = normalizer.Options
	ScopeComparer       = application.ScopeComparer
	Inspector           = application.Inspector
	LinkService         = application.LinkService
	LinkStats           = application.LinkStats
	NormalizationPolicy = application.NormalizationPolicy
	Config              = config.Config
)

const (
	HostClassUnparseable = domain.HostClassUnparseable
	HostClassPublic      = domain.HostClassPublic
	HostClassPrivate     = domain.HostClassPrivate
	HostClassLoopback    = domain.HostClassLoopback
	HostClassUnroutable  = domain.HostClassUnroutable
)

const (
	CapitalizePercentEncoding    = normalizer.CapitalizePercentEncoding
	DecodeUnreservedCharacters   = normalizer.DecodeUnreservedCharacters
	ConvertEmptyHTTPPath         = normalizer.ConvertEmptyHTTPPath
	RemoveDefaultFileHost        = normalizer.RemoveDefaultFileHost
	RemoveDefaultPort            = normalizer.RemoveDefaultPort
	RemovePathDotSegments        = normalizer.RemovePathDotSegments
	ConvertHostUnicodeToPunycode = normalizer.ConvertHostUnicodeToPunycode
	ReduceDuplicatePathSlashes   = normalizer.ReduceDuplicatePathSlashes
	SortQueryParameters          = normalizer.SortQueryParameters
	AddPathTrailingSlash         = normalizer.AddPathTrailingSlash
	RemoveUserInfo               = normalizer.RemoveUserInfo
	RemoveFragment               = normalizer.RemoveFragment
	RemoveWWW                    = normalizer.RemoveWWW
	None                         = normalizer.None
	PreservingNormalizations     = normalizer.PreservingNormalizations
)

var (
	ErrEmptyURI            = domain.ErrEmptyURI
	ErrInvalidPort         = domain.ErrInvalidPort
	ErrUnsupportedEncoding = domain.ErrUnsupportedEncoding
	ErrUnknownFlag         = normalizer.ErrUnknownFlag
	ErrInvalidConfig       = config.ErrInvalidConfig
)

// IndexFilePattern matches directory index file names such as index.html,
// for use in Options.RemovePathFilesPatterns.
var IndexFilePattern = normalizer.IndexFilePattern

var (
	defaultCodec      = idna.NewCodec(nil)
	defaultNormalizer = normalizer.NewNormalizer(defaultCodec)
	defaultInspector  = application.NewInspector(routability.NewClassifier())
)

// Parse builds a URI from rawURL. It fails only with ErrInvalidPort.
func Parse(rawURL string) (*URI, error) {
	return errtrace.Wrap2(domain.NewURI(rawURL))
}

// MustParse is like Parse but panics on error.
func MustParse(rawURL string) *URI {
	return domain.MustURI(rawURL)
}

// Compose assembles and parses a URI from its parts.
func Compose(scheme, authority, path, query, fragment string) (*URI, error) {
	return errtrace.Wrap2(domain.Compose(scheme, authority, path, query, fragment))
}

func NewUserInfo(user, password string) UserInfo {
	return domain.NewUserInfo(user, password)
}

// ParseUserInfo splits "user:password".
func ParseUserInfo(userInfo string) UserInfo {
	return domain.UserInfoFromString(userInfo)
}

func NewPath(path string) Path {
	return domain.NewPath(path)
}

// FilterPath percent-encodes characters not allowed in a path.
func FilterPath(path string) string {
	return domain.FilterPath(path)
}

// FilterQueryOrFragment percent-encodes characters not allowed in a query
// or fragment.
func FilterQueryOrFragment(value string) string {
	return domain.FilterQueryOrFragment(value)
}

// DefaultPort returns the well-known port for scheme.
func DefaultPort(scheme string) (int, bool) {
	return domain.DefaultPort(scheme)
}

func ParseFlags(s string) (Flags, error) {
	return errtrace.Wrap2(normalizer.ParseFlags(s))
}

// Normalize applies the rules selected by flags, then the option rules.
func Normalize(u *URI, flags Flags, opts Options) *URI {
	return defaultNormalizer.Normalize(u, flags, opts)
}

// NormalizeString parses, normalizes and renders rawURL.
func NormalizeString(rawURL string, flags Flags, opts Options) (string, error) {
	return errtrace.Wrap2(defaultNormalizer.NormalizeString(rawURL, flags, opts))
}

// NewScopeComparer returns a comparer with no equivalence sets.
func NewScopeComparer() *ScopeComparer {
	return application.NewScopeComparer()
}

// NewPunycodeScopeComparer returns a comparer that also treats Unicode hosts
// and their punycode forms as equivalent.
func NewPunycodeScopeComparer() *ScopeComparer {
	sc := application.NewScopeComparer()
	sc.UsePunycodeEquivalence(defaultCodec)
	return sc
}

func NewInspector() *Inspector {
	return application.NewInspector(routability.NewClassifier())
}

func IsNotPubliclyRoutable(u *URI) bool {
	return defaultInspector.IsNotPubliclyRoutable(u)
}

func IsProtocolRelative(u *URI) bool {
	return defaultInspector.IsProtocolRelative(u)
}

// ClassifyHost reports the routability class of an IP literal host.
func ClassifyHost(host string) HostClass {
	return routability.NewClassifier().Classify(host)
}

// ToPunycode encodes each label of host; labels that cannot be encoded are
// kept as they are.
func ToPunycode(host string) string {
	return defaultCodec.ToPunycode(host)
}

// FromPunycode decodes each "xn--" label of host.
func FromPunycode(host string) string {
	return defaultCodec.FromPunycode(host)
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	return errtrace.Wrap2(config.LoadConfig())
}

// NewLinkService wires a LinkService from cfg. Log output goes to w.
func NewLinkService(cfg *Config, w io.Writer) (*LinkService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}

	logger, err := config.NewLogger(cfg.Logging, w)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	flags, err := cfg.NormalizerFlags()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	opts, err := cfg.NormalizerOptions()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	codec := idna.NewCodec(logger)

	scope := application.NewScopeComparer()
	cfg.ApplyScope(scope)
	if cfg.Scope.PunycodeHosts {
		scope.UsePunycodeEquivalence(codec)
	}

	service := application.NewLinkService(
		normalizer.NewNormalizer(codec),
		application.NormalizationPolicy{Flags: flags, Options: opts},
		scope,
		application.NewInspector(routability.NewClassifier()),
		codec,
		storage.NewLinkStore(uint(cfg.Storage.ExpectedLinks)),
		logger,
	)

	logger.Info("Link service configured",
		"flags", flags.String(),
		"scheme_sets", len(cfg.Scope.EquivalentSchemes),
		"host_sets", len(cfg.Scope.EquivalentHosts),
		"punycode_hosts", cfg.Scope.PunycodeHosts,
		"expected_links", cfg.Storage.ExpectedLinks,
	)

	return service, nil
}

// NewLinkServiceFromEnv loads and validates the environment configuration
// and wires a LinkService logging to w.
func NewLinkServiceFromEnv(w io.Writer) (*LinkService, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return nil, errtrace.Wrap(err)
	}

	return errtrace.Wrap2(NewLinkService(cfg, w))
}

package normalizer

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/kerim-dauren/urikit/internal/domain"
	"github.com/kerim-dauren/urikit/internal/infrastructure/idna"
)

const (
	schemeHTTP  = "http"
	schemeHTTPS = "https"
	schemeFile  = "file"

	defaultFileHost = "localhost"

	pathSeparator    = "/"
	queryKVDelimiter = "&"
	queryKVSeparator = "="
	dotSegment       = "."
	doubleDotSegment = ".."
)

var (
	wwwRegex           = regexp.MustCompile(`^www\.`)
	duplicateSlashes   = regexp.MustCompile(`/{2,}`)
	unreservedTriplet  = regexp.MustCompile(`(?i)%(?:2D|2E|5F|7E|3[0-9]|[46][1-9A-F]|[57][0-9A])`)
	percentTripletRuns = regexp.MustCompile(`(?:%[A-Fa-f0-9]{2})+`)

	// IndexFilePattern matches directory index file names such as index.html.
	IndexFilePattern = regexp.MustCompile(`(?i)^index\.[a-z]+$`)
)

// Options carries the pattern-driven rules. A nil slice disables the rule;
// these rules run even when the flags are None.
type Options struct {
	// RemovePathFilesPatterns drops the final path segment when the path
	// ends in a file name matching any pattern.
	RemovePathFilesPatterns []*regexp.Regexp
	// RemoveQueryParametersPatterns drops every key=value pair whose key
	// matches any pattern.
	RemoveQueryParametersPatterns []*regexp.Regexp
}

type rule struct {
	flag  Flags
	apply func(n *Normalizer, u *domain.URI) *domain.URI
}

// Rules run in this order; later rules see the output of earlier ones.
var rules = []rule{
	{RemoveUserInfo, removeUserInfo},
	{RemoveFragment, removeFragment},
	{ConvertHostUnicodeToPunycode, convertHostToPunycode},
	{RemoveWWW, removeWWW},
	{RemovePathDotSegments, removeDotSegmentsRule},
	{ReduceDuplicatePathSlashes, reduceDuplicateSlashes},
	{AddPathTrailingSlash, addTrailingSlashRule},
	{SortQueryParameters, sortQuery},
	{DecodeUnreservedCharacters, decodeUnreserved},
	{RemoveDefaultPort, removeDefaultPort},
	{CapitalizePercentEncoding, capitalizePercentEncoding},
	{ConvertEmptyHTTPPath, convertEmptyHTTPPath},
	{RemoveDefaultFileHost, removeDefaultFileHost},
}

type Normalizer struct {
	encoder domain.PunycodeEncoder
}

// NewNormalizer returns a Normalizer that converts hosts with encoder. A nil
// encoder falls back to the IDNA codec.
func NewNormalizer(encoder domain.PunycodeEncoder) *Normalizer {
	if encoder == nil {
		encoder = idna.NewCodec(nil)
	}

	return &Normalizer{encoder: encoder}
}

// Normalize applies every rule selected by flags, then the option rules.
func (n *Normalizer) Normalize(u *domain.URI, flags Flags, opts Options) *domain.URI {
	if flags != None {
		for _, r := range rules {
			if flags.Has(r.flag) {
				u = r.apply(n, u)
			}
		}
	}

	if opts.RemovePathFilesPatterns != nil {
		u = u.WithPath(removePathFiles(u.Path(), opts.RemovePathFilesPatterns))
	}

	if opts.RemoveQueryParametersPatterns != nil {
		u = u.WithQuery(removeQueryParameters(u.Query(), opts.RemoveQueryParametersPatterns))
	}

	return u
}

// NormalizeString parses rawURL, normalizes it and renders the result.
func (n *Normalizer) NormalizeString(rawURL string, flags Flags, opts Options) (string, error) {
	u, err := domain.NewURI(rawURL)
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	return n.Normalize(u, flags, opts).String(), nil
}

func removeUserInfo(_ *Normalizer, u *domain.URI) *domain.URI {
	if u.UserInfo() == "" {
		return u
	}
	return u.WithUserInfo("", "")
}

func removeFragment(_ *Normalizer, u *domain.URI) *domain.URI {
	if u.Fragment() == "" {
		return u
	}
	return u.WithFragment("")
}

func convertHostToPunycode(n *Normalizer, u *domain.URI) *domain.URI {
	if u.Host() == "" {
		return u
	}
	return u.WithHost(n.encoder.ToPunycode(u.Host()))
}

func removeWWW(_ *Normalizer, u *domain.URI) *domain.URI {
	if !wwwRegex.MatchString(u.Host()) {
		return u
	}
	return u.WithHost(wwwRegex.ReplaceAllLiteralString(u.Host(), ""))
}

func removeDotSegmentsRule(_ *Normalizer, u *domain.URI) *domain.URI {
	return u.WithPath(removeDotSegments(u.Path()))
}

func reduceDuplicateSlashes(_ *Normalizer, u *domain.URI) *domain.URI {
	return u.WithPath(duplicateSlashes.ReplaceAllLiteralString(u.Path(), pathSeparator))
}

func addTrailingSlashRule(_ *Normalizer, u *domain.URI) *domain.URI {
	return u.WithPath(addTrailingSlash(u.Path()))
}

func sortQuery(_ *Normalizer, u *domain.URI) *domain.URI {
	if u.Query() == "" {
		return u
	}

	pairs := strings.Split(u.Query(), queryKVDelimiter)
	slices.Sort(pairs)

	return u.WithQuery(strings.Join(pairs, queryKVDelimiter))
}

func decodeUnreserved(_ *Normalizer, u *domain.URI) *domain.URI {
	return replaceInPathAndQuery(u, unreservedTriplet, decodeTriplet)
}

func removeDefaultPort(_ *Normalizer, u *domain.URI) *domain.URI {
	port, hasPort := u.Port()
	if domain.IsDefaultPort(u.Scheme(), port, hasPort) {
		return u.WithoutPort()
	}
	return u
}

func capitalizePercentEncoding(_ *Normalizer, u *domain.URI) *domain.URI {
	return replaceInPathAndQuery(u, percentTripletRuns, strings.ToUpper)
}

func convertEmptyHTTPPath(_ *Normalizer, u *domain.URI) *domain.URI {
	if u.Path() != "" {
		return u
	}
	if u.Scheme() != schemeHTTP && u.Scheme() != schemeHTTPS {
		return u
	}
	return u.WithPath(pathSeparator)
}

func removeDefaultFileHost(_ *Normalizer, u *domain.URI) *domain.URI {
	if u.Scheme() == schemeFile && u.Host() == defaultFileHost {
		return u.WithHost("")
	}
	return u
}

func replaceInPathAndQuery(u *domain.URI, re *regexp.Regexp, replace func(string) string) *domain.URI {
	return u.
		WithPath(re.ReplaceAllStringFunc(u.Path(), replace)).
		WithQuery(re.ReplaceAllStringFunc(u.Query(), replace))
}

func decodeTriplet(triplet string) string {
	b, err := strconv.ParseUint(triplet[1:], 16, 8)
	if err != nil {
		return triplet
	}
	return string(rune(b))
}

// removeDotSegments resolves "." and ".." segments. A leading slash is kept,
// and a path ending in a dot segment gains a trailing slash.
func removeDotSegments(path string) string {
	if path == "" || path == pathSeparator {
		return path
	}

	segments := strings.Split(path, pathSeparator)
	results := make([]string, 0, len(segments))

	for _, segment := range segments {
		switch segment {
		case doubleDotSegment:
			if len(results) > 0 {
				results = results[:len(results)-1]
			}
		case dotSegment:
		default:
			results = append(results, segment)
		}
	}

	last := segments[len(segments)-1]
	newPath := strings.Join(results, pathSeparator)

	if strings.HasPrefix(path, pathSeparator) && !strings.HasPrefix(newPath, pathSeparator) {
		newPath = pathSeparator + newPath
	} else if newPath != "" && (last == dotSegment || last == doubleDotSegment) {
		newPath += pathSeparator
	}

	return newPath
}

func addTrailingSlash(path string) string {
	if path == "" {
		return pathSeparator
	}

	p := domain.NewPath(path)
	if !p.HasFilename() && !p.HasTrailingSlash() {
		return path + pathSeparator
	}

	return path
}

func removePathFiles(path string, patterns []*regexp.Regexp) string {
	if path == "" {
		return path
	}

	p := domain.NewPath(path)
	if !p.HasFilename() {
		return path
	}

	filename := p.Filename()
	if !slices.ContainsFunc(patterns, func(re *regexp.Regexp) bool {
		return re.MatchString(filename)
	}) {
		return path
	}

	parts := strings.Split(p.String(), pathSeparator)
	return strings.Join(parts[:len(parts)-1], pathSeparator)
}

// removeQueryParameters keeps only the pairs whose key survives every
// pattern.
func removeQueryParameters(query string, patterns []*regexp.Regexp) string {
	pairs := strings.Split(query, queryKVDelimiter)

	for _, re := range patterns {
		pairs = slices.DeleteFunc(pairs, func(pair string) bool {
			return re.MatchString(queryKey(pair))
		})
	}

	return strings.Join(pairs, queryKVDelimiter)
}

// queryKey is the text before the first "=", or the whole pair when "="
// is absent or leads the pair.
func queryKey(pair string) string {
	if idx := strings.Index(pair, queryKVSeparator); idx > 0 {
		return pair[:idx]
	}
	return pair
}

package idna

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/kerim-dauren/urikit/internal/domain"
)

// Codec converts host names between Unicode and punycode label by label.
// A label that cannot be converted is passed through unchanged.
type Codec struct {
	profile *idna.Profile
	logger  *slog.Logger
}

// NewCodec returns a codec logging skipped labels to logger, or to the
// default logger at call time when logger is nil.
func NewCodec(logger *slog.Logger) *Codec {
	return &Codec{
		profile: idna.New(
			idna.ValidateLabels(false),
			idna.VerifyDNSLength(false),
			idna.StrictDomainName(false),
		),
		logger: logger,
	}
}

func (c *Codec) ToPunycode(host string) string {
	parts := domain.HostParts(host)
	for i, label := range parts {
		parts[i] = c.encodeLabel(label)
	}
	return domain.JoinHostParts(parts)
}

func (c *Codec) FromPunycode(host string) string {
	parts := domain.HostParts(host)
	for i, label := range parts {
		parts[i] = c.decodeLabel(label)
	}
	return domain.JoinHostParts(parts)
}

func (c *Codec) encodeLabel(label string) string {
	if isASCII(label) {
		return label
	}

	if !utf8.ValidString(label) {
		c.log().Debug("Punycode encoding skipped", "label", label, "error", domain.ErrUnsupportedEncoding)
		return label
	}

	folded := norm.NFC.String(width.Fold.String(label))

	encoded, err := c.profile.ToASCII(folded)
	if err != nil || encoded == "" {
		c.log().Debug("Punycode encoding skipped", "label", label, "error", err)
		return label
	}

	return encoded
}

func (c *Codec) decodeLabel(label string) string {
	if !strings.HasPrefix(strings.ToLower(label), "xn--") {
		return label
	}

	decoded, err := c.profile.ToUnicode(label)
	if err != nil {
		c.log().Debug("Punycode decoding skipped", "label", label, "error", err)
		return label
	}

	return decoded
}

func (c *Codec) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

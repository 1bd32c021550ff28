package application

import "github.com/kerim-dauren/urikit/internal/domain"

type Inspector struct {
	classifier RoutabilityClassifier
}

func NewInspector(classifier RoutabilityClassifier) *Inspector {
	return &Inspector{classifier: classifier}
}

// IsNotPubliclyRoutable reports whether u cannot be reached on the public
// internet. IP hosts are judged by their address class; other hosts by
// shape only (a public name needs an inner dot).
func (i *Inspector) IsNotPubliclyRoutable(u *domain.URI) bool {
	host := u.Host()
	if host == "" {
		return true
	}

	class := i.classifier.Classify(host)
	if class == domain.HostClassUnparseable {
		return domain.IsMalformedHostname(host)
	}

	return !class.IsPubliclyRoutable()
}

// IsProtocolRelative reports whether u has a host but no scheme, as in
// "//example.com/path".
func (i *Inspector) IsProtocolRelative(u *domain.URI) bool {
	return u.Scheme() == "" && u.Host() != ""
}

package domain

import "errors"

var (
	ErrEmptyURI            = errors.New("empty URI")
	ErrInvalidPort         = errors.New("invalid port")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)

package domain

import "strings"

const pathSeparator = "/"

// Path is a percent-filtered URI path with filename/directory inspection.
type Path struct {
	path string
}

func NewPath(path string) Path {
	return Path{path: FilterPath(path)}
}

func (p Path) String() string {
	return p.path
}

func (p Path) IsRelative() bool {
	return !p.IsAbsolute()
}

func (p Path) IsAbsolute() bool {
	return strings.HasPrefix(p.path, pathSeparator)
}

func (p Path) HasTrailingSlash() bool {
	return strings.HasSuffix(p.path, pathSeparator)
}

// HasFilename reports whether the final segment looks like a file, i.e. it
// contains a dot and the path does not end with a slash.
func (p Path) HasFilename() bool {
	if p.path == "" || p.HasTrailingSlash() {
		return false
	}
	return strings.Contains(p.basename(), ".")
}

func (p Path) Filename() string {
	if !p.HasFilename() {
		return ""
	}
	return p.basename()
}

// Directory is the path without its filename. Paths without a filename are
// returned unchanged.
func (p Path) Directory() string {
	if !p.HasFilename() {
		return p.path
	}

	idx := strings.LastIndex(p.path, pathSeparator)
	switch {
	case idx < 0:
		return "."
	case idx == 0:
		return pathSeparator
	default:
		return p.path[:idx]
	}
}

func (p Path) basename() string {
	return p.path[strings.LastIndex(p.path, pathSeparator)+1:]
}

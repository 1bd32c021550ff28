// Package urikit parses, normalizes and compares URIs the way a web crawler
// needs to.
//
// Parsing is tolerant: malformed input degrades to a URI with fewer
// components instead of failing. The only construction error is a port
// outside [0, 65535]. URI values are immutable; every With method returns a
// new value, or the receiver itself when nothing changes.
//
// Normalize applies an ordered set of rules selected by Flags. The default
// set, PreservingNormalizations, never changes the resource a URI
// identifies. ScopeComparer answers whether one URI falls under another,
// honoring registered scheme and host equivalences, and Inspector reports
// protocol-relative and non-routable URIs.
//
// LinkService combines these for crawlers: canonicalization, equivalence,
// scope checks and a visited-link store, configured from the environment by
// NewLinkServiceFromEnv.
package urikit

package routes

import "strings"

// Locales describes the locale set used when building redirect targets. The
// default locale contributes no path segment; every other supported locale is
// prepended as "/{locale}".
//
// Locales instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Locales struct {
	Default   string
	Supported []string
}

// DefaultLocales returns the platform locale set.
func DefaultLocales() Locales {
	return Locales{
		Default:   "pt",
		Supported: []string{"pt", "en", "es"},
	}
}

// Contains reports whether locale is in the supported set.
func (l Locales) Contains(locale string) bool {
	for _, s := range l.Supported {
		if s == locale {
			return true
		}
	}
	return false
}

// Localize prefixes path with the locale segment. The default locale and any
// unsupported locale contribute no segment.
func (l Locales) Localize(locale, path string) string {
	if locale == "" || locale == l.Default || !l.Contains(locale) {
		return path
	}
	return "/" + locale + path
}

// Split extracts a leading supported locale segment from path. When the first
// segment is not a supported non-default locale, the default locale and the
// unchanged path are returned.
func (l Locales) Split(path string) (locale, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	seg, tail, found := strings.Cut(trimmed, "/")
	if seg != l.Default && l.Contains(seg) {
		if !found || tail == "" {
			return seg, "/"
		}
		return seg, "/" + tail
	}
	return l.Default, path
}

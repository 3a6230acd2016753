// Package audio acquires audio resources from URLs or local paths and
// prepares them for model providers. It never decodes audio; bytes are
// forwarded as-is with a container hint taken from the reference.
package audio

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Kind classifies an audio reference.
type Kind int

const (
	KindLocal Kind = iota
	KindURL
)

func (k Kind) String() string {
	if k == KindURL {
		return "url"
	}
	return "local"
}

// Reference is a URL or filesystem path naming an audio resource.
type Reference string

// Classify reports KindURL when the reference parses with both a scheme and
// a host; everything else is a local path.
func (r Reference) Classify() Kind {
	u, err := url.Parse(string(r))
	if err == nil && u.Scheme != "" && u.Host != "" {
		return KindURL
	}
	return KindLocal
}

// schemeOnly reports a reference like "https:/clip.mp3" that carries a URL
// scheme but no host. Single-letter schemes are drive letters, not schemes.
func (r Reference) schemeOnly() bool {
	u, err := url.Parse(string(r))
	return err == nil && len(u.Scheme) > 1 && u.Host == ""
}

// Format returns the lowercase extension of the reference without the dot,
// or "" when it has none. URLs use only their path, so query strings and
// fragments are ignored. The result is a hint and is not validated.
func Format(ref string) string {
	r := Reference(ref)

	var ext string
	if r.Classify() == KindURL {
		u, _ := url.Parse(ref)
		ext = path.Ext(u.Path)
	} else {
		ext = filepath.Ext(ref)
	}

	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

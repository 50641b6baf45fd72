// Package images resolves note names to picture files on disk. Note
// names arrive as free text ("Pink Pepper", "Ylang-Ylang"); files are
// stored under ASCII slugs, so resolution goes through Unicode
// normalization before the filesystem lookup.
package images

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// extensions are tried in order when resolving a slug to a file.
var extensions = []string{".webp", ".jpg", ".jpeg", ".png"}

// PlaceholderSlug names the fallback image used for unknown notes.
const PlaceholderSlug = "placeholder"

// Slugify converts a note name to its file slug: accents stripped via
// NFKD, lowercased, runs of non-alphanumerics collapsed to single
// hyphens. "Crème Brûlée" becomes "creme-brulee".
func Slugify(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, name)
	if err != nil {
		ascii = name
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(ascii) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// Resolver maps note names to image paths within a picture directory.
type Resolver struct {
	dir string
}

// NewResolver creates a resolver over the given picture directory.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve returns the path of the image for a note name, trying each
// known extension. Unknown notes fall back to the placeholder image;
// ok is false when not even the placeholder exists.
func (r *Resolver) Resolve(name string) (path string, ok bool) {
	slug := Slugify(name)
	if slug == "" {
		slug = PlaceholderSlug
	}

	if p, found := r.lookup(slug); found {
		return p, true
	}
	if slug != PlaceholderSlug {
		if p, found := r.lookup(PlaceholderSlug); found {
			return p, true
		}
	}
	return "", false
}

func (r *Resolver) lookup(slug string) (string, bool) {
	for _, ext := range extensions {
		p := filepath.Join(r.dir, slug+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

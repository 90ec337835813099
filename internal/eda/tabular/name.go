package tabular

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//nolint:gochecknoglobals // compiled once
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces name to an ASCII file name safe to store. Accents
// are decomposed and dropped, path separators and whitespace become
// underscores, and leading or trailing dots and underscores are trimmed.
func SanitizeFilename(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, name)
	if err != nil {
		ascii = ""
	}

	ascii = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeFilenameChars.ReplaceAllString(ascii, "")

	return strings.Trim(ascii, "._")
}

// StoredFilename sanitizes name and guarantees the result keeps ext, so the
// delimiter can still be derived from the stored object.
func StoredFilename(name, ext string) string {
	ext = strings.ToLower(ext)
	clean := SanitizeFilename(name)
	if strings.EqualFold(filepath.Ext(clean), ext) && len(clean) > len(ext) {
		return clean
	}

	stem := SanitizeFilename(strings.TrimSuffix(name, filepath.Ext(name)))
	if stem == "" {
		stem = "upload"
	}
	return stem + ext
}

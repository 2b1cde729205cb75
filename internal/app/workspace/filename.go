package workspace

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to an ASCII-only base name safe to join onto the
// working directory. It may return "" when nothing survives.
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, decomposed)

	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	joined := strings.Join(strings.Fields(ascii), "_")
	return strings.Trim(unsafeChars.ReplaceAllString(joined, ""), "._")
}

// UploadName returns the sanitized name for an upload, falling back to
// "upload<ext>" when sanitizing loses the stem or the extension.
func UploadName(original string) string {
	ext := filepath.Ext(original)
	safe := SecureFilename(original)
	stem := strings.TrimSuffix(safe, filepath.Ext(safe))
	if stem == "" || !strings.EqualFold(filepath.Ext(safe), ext) {
		return "upload" + strings.ToLower(ext)
	}
	return safe
}

// AllowedUpload reports whether name has an accepted extension.
func AllowedUpload(name string) bool {
	return lo.Contains(UploadExtensions, strings.ToLower(filepath.Ext(name)))
}

package listing

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/irsalhamdi/course-listing/random"
	"golang.org/x/text/unicode/norm"
)

const maxSlugBase = 80

// Slugify lower-cases s, turns whitespace into hyphens and drops anything
// that is not a letter, digit, combining mark or hyphen. Letters of any
// script are kept with their marks; only marks on Latin letters are folded
// (é → e).
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	hyphen := false
	n := 0
	var base rune
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.M, r) {
			if base == 0 || (unicode.Is(unicode.Latin, base) && unicode.Is(unicode.Mn, r)) {
				continue
			}
			b.WriteRune(r)
			continue
		}

		if n >= maxSlugBase {
			break
		}

		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			base = r
			hyphen = false
			n++
		case unicode.IsSpace(r) || r == '-':
			base = 0
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
				n++
			}
		default:
			base = 0
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "listing"
	}
	return norm.NFC.String(out)
}

// NewSlug derives a globally unique slug from title. The suffix combines the
// promotion instant with random characters so identical titles never clash.
func NewSlug(title string, now time.Time) string {
	return Slugify(title) + "-" + strconv.FormatInt(now.UnixNano(), 36) + "-" + random.Lower(4)
}

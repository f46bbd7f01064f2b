// Package htmltext reduces an HTML document to its title, meta description
// and readable text using tolerant pattern matching. It never fails.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/second-brain/core/internal/pkg/textutil"
)

const (
	// MaxTextRunes bounds PlainText.
	MaxTextRunes = 8000
	// PreviewRunes bounds the externally visible preview.
	PreviewRunes = 500

	UntitledTitle = "Untitled"
)

var (
	titlePattern    = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
	metaNameFirst   = regexp.MustCompile(`(?i)<meta[^>]*name=["']description["'][^>]*content=["']([^"']+)["']`)
	metaContentLast = regexp.MustCompile(`(?i)<meta[^>]*content=["']([^"']+)["'][^>]*name=["']description["']`)

	blockPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`),
		regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`),
		regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`),
	}
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Page is the reduced form of an HTML document.
type Page struct {
	Title           string
	MetaDescription string
	PlainText       string
}

// Preview returns the first PreviewRunes runes of PlainText.
func (p Page) Preview() string {
	return textutil.Clip(p.PlainText, PreviewRunes)
}

// Reduce extracts title, meta description and plain text from html.
func Reduce(html string) Page {
	return Page{
		Title:           title(html),
		MetaDescription: metaDescription(html),
		PlainText:       plainText(html),
	}
}

func title(html string) string {
	m := titlePattern.FindStringSubmatch(html)
	if m == nil {
		return UntitledTitle
	}
	if t := strings.TrimSpace(m[1]); t != "" {
		return t
	}
	return UntitledTitle
}

func metaDescription(html string) string {
	m := metaNameFirst.FindStringSubmatch(html)
	if m == nil {
		m = metaContentLast.FindStringSubmatch(html)
	}
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func plainText(html string) string {
	text := html
	for _, p := range blockPatterns {
		text = p.ReplaceAllString(text, "")
	}
	text = tagPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return textutil.Clip(strings.TrimSpace(text), MaxTextRunes)
}

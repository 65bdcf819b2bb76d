package scoring

import (
	"regexp"
	"strings"
)

const (
	underlineOpen  = `<u style="text-decoration-color:red; text-decoration-thickness:2px;">`
	underlineClose = `</u>`
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Annotate escapes the essay as HTML and underlines every occurrence of each
// error substring. Replacements run one error at a time over the already
// marked-up text, so a later substring can match inside an earlier tag.
func Annotate(essay string, errs []LanguageError) string {
	marked := htmlEscaper.Replace(essay)

	for _, e := range errs {
		if e.Substring == "" {
			continue
		}
		pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(e.Substring))
		if err != nil {
			continue
		}
		marked = pattern.ReplaceAllStringFunc(marked, func(match string) string {
			return underlineOpen + match + underlineClose
		})
	}

	return strings.ReplaceAll(marked, "\n", "<br/>")
}

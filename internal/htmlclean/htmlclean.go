// Package htmlclean turns WordPress post content from a SQL dump into clean
// HTML.
//
// Cleaning is an ordered list of pure Rules. Order matters: escapes are
// resolved before any pattern sees a quote, empty anchors are removed before
// anchors are rewritten, and tracking parameters are stripped while an href
// is rewritten rather than afterwards.
package htmlclean

import (
	"regexp"
	"strings"
)

// Rule is one cleanup step.
type Rule struct {
	Name  string
	Apply func(string) string
}

// Options configures a Cleaner.
type Options struct {
	// LegacyHost is the old site host whose wp-content links are unwrapped
	// to their text. Empty disables the rule.
	LegacyHost string
}

// DefaultOptions returns the options used for the grapadinews.co.id export.
func DefaultOptions() Options {
	return Options{LegacyHost: "grapadinews.co.id"}
}

// Cleaner applies Rules in order.
type Cleaner struct {
	rules []Rule
}

// New builds the standard rule pipeline.
func New(opts Options) *Cleaner {
	rules := []Rule{
		{"escapes", unescapeContent},
		{"shortcodes", replaceWith(shortcodeRe, "")},
		{"style-double", replaceWith(styleDoubleRe, "")},
		{"style-single", replaceWith(styleSingleRe, "")},
		{"wp-classes", replaceWith(wpClassRe, "")},
		{"nbsp-paragraphs", replaceWith(nbspParagraphRe, "")},
		{"empty-paragraphs", replaceWith(emptyParagraphRe, "")},
		{"nbsp", func(s string) string { return strings.ReplaceAll(s, "&nbsp;", " ") }},
		{"empty-anchors", replaceWith(emptyAnchorRe, "")},
	}
	if opts.LegacyHost != "" {
		rules = append(rules, Rule{"legacy-uploads", legacyUploadRule(opts.LegacyHost)})
	}
	rules = append(rules,
		Rule{"anchors", rewriteAnchors},
		Rule{"caption-divs", replaceWith(captionDivRe, "")},
		Rule{"empty-divs", replaceWith(emptyDivRe, "")},
		Rule{"blank-lines", replaceWith(blankLinesRe, "\n\n")},
		Rule{"images", rewriteImages},
		Rule{"comments", replaceWith(commentRe, "")},
		Rule{"trim", strings.TrimSpace},
	)
	return &Cleaner{rules: rules}
}

// Rules returns the pipeline in application order.
func (c *Cleaner) Rules() []Rule {
	return c.rules
}

// Clean runs every rule over content.
func (c *Cleaner) Clean(content string) string {
	if content == "" {
		return ""
	}
	for _, r := range c.rules {
		content = r.Apply(content)
	}
	return content
}

var (
	shortcodeRe      = regexp.MustCompile(`\[/?[a-zA-Z_][a-zA-Z0-9_]*(?:\s[^\]]*?)?\]`)
	styleDoubleRe    = regexp.MustCompile(`(?i)\s*style\s*=\s*"[^"]*"`)
	styleSingleRe    = regexp.MustCompile(`(?i)\s*style\s*=\s*'[^']*'`)
	wpClassRe        = regexp.MustCompile(`(?i)\s*class\s*=\s*"[^"]*wp-[^"]*"`)
	nbspParagraphRe  = regexp.MustCompile(`(?i)<p>\s*&nbsp;\s*</p>`)
	emptyParagraphRe = regexp.MustCompile(`(?i)<p>\s*</p>`)
	emptyAnchorRe    = regexp.MustCompile(`(?i)<a\s[^>]*href\s*=\s*["']?\s*["']?[^>]*>\s*</a>`)
	anchorRe         = regexp.MustCompile(`(?is)<a\s([^>]*)>(.*?)</a>`)
	hrefRe           = regexp.MustCompile(`(?i)href\s*=\s*["']([^"']+)["']`)
	trackingParamRe  = regexp.MustCompile(`[?&]utm_[^&]*`)
	trailingQueryRe  = regexp.MustCompile(`\?$`)
	captionDivRe     = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*wp-caption[^"]*"[^>]*>.*?</div>`)
	emptyDivRe       = regexp.MustCompile(`(?i)<div[^>]*>\s*</div>`)
	blankLinesRe     = regexp.MustCompile(`\n{3,}`)
	imgRe            = regexp.MustCompile(`(?i)<img\s[^>]*/?>`)
	srcRe            = regexp.MustCompile(`(?i)src\s*=\s*["']([^"']+)["']`)
	altRe            = regexp.MustCompile(`(?i)alt\s*=\s*["']([^"']*)["']`)
	commentRe        = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// contentEscapes lists the dump escapes that survive in post bodies.
// The order matches sequential replacement: \r\n before \n.
var contentEscapes = []struct{ old, new string }{
	{`\r\n`, "\n"},
	{`\n`, "\n"},
	{`\t`, "\t"},
	{`\'`, "'"},
	{`\"`, `"`},
}

func unescapeContent(s string) string {
	for _, r := range contentEscapes {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return s
}

func replaceWith(re *regexp.Regexp, repl string) func(string) string {
	return func(s string) string {
		return re.ReplaceAllString(s, repl)
	}
}

// legacyUploadRule unwraps links into the old host's upload directory,
// keeping the link text.
func legacyUploadRule(host string) func(string) string {
	re := regexp.MustCompile(`(?is)<a\s[^>]*href\s*=\s*["']https?://` + regexp.QuoteMeta(host) +
		`/wp-content/[^"']*["'][^>]*>(.*?)</a>`)
	return replaceWith(re, "${1}")
}

// rewriteAnchors normalizes every remaining link to a bare href that opens in
// a new tab. Links without a usable href are replaced by their text.
func rewriteAnchors(s string) string {
	return replaceAllSubmatchFunc(anchorRe, s, func(groups []string) string {
		attrs, inner := groups[1], groups[2]

		m := hrefRe.FindStringSubmatch(attrs)
		if m == nil {
			return inner
		}
		href := m[1]
		if href == "#" || strings.TrimSpace(href) == "" {
			return inner
		}

		href = trackingParamRe.ReplaceAllString(href, "")
		href = trailingQueryRe.ReplaceAllString(href, "")
		return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + inner + `</a>`
	})
}

// rewriteImages keeps only src and alt, and adds lazy loading.
// Images without a src are removed.
func rewriteImages(s string) string {
	return imgRe.ReplaceAllStringFunc(s, func(tag string) string {
		src := srcRe.FindStringSubmatch(tag)
		if src == nil {
			return ""
		}
		alt := ""
		if m := altRe.FindStringSubmatch(tag); m != nil {
			alt = m[1]
		}
		return `<img src="` + src[1] + `" alt="` + alt + `" loading="lazy" />`
	})
}

// replaceAllSubmatchFunc is ReplaceAllStringFunc with access to the
// submatches of each match.
func replaceAllSubmatchFunc(re *regexp.Regexp, s string, fn func(groups []string) string) string {
	idx := re.FindAllStringSubmatchIndex(s, -1)
	if idx == nil {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	last := 0
	for _, m := range idx {
		groups := make([]string, len(m)/2)
		for g := range groups {
			if m[2*g] >= 0 {
				groups[g] = s[m[2*g]:m[2*g+1]]
			}
		}
		sb.WriteString(s[last:m[0]])
		sb.WriteString(fn(groups))
		last = m[1]
	}
	sb.WriteString(s[last:])
	return sb.String()
}

package collector

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	readability "github.com/go-shiori/go-readability"

	"github.com/use-agent/brandseed/models"
	"github.com/use-agent/brandseed/normalize"
)

// leadRunes is how much body text is gathered before giving up on more
// paragraphs.
const leadRunes = 300

var (
	mdLinkRe   = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdMarkupRe = regexp.MustCompile("[*_`]+")
)

// newMarkdownConverter renders readability output; only prose survives
// into a description, so tables are left to the base plugin.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
}

// describe picks the long description: the longer of the two meta
// descriptions, else the readability excerpt, else the lead paragraphs of
// the main content.
func (c *Collector) describe(page *Page, rawHTML string) string {
	desc := page.Description
	if normalize.RuneLen(page.OGDescription) > normalize.RuneLen(desc) {
		desc = page.OGDescription
	}
	if desc == "" {
		desc = c.articleLead(rawHTML, page.URL)
	}
	return cutWords(desc, models.MaxDescriptionLength)
}

func (c *Collector) articleLead(rawHTML, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), parsed)
	if err != nil {
		slog.Debug("readability failed", "url", pageURL, "error", err)
		return ""
	}
	if excerpt := normalize.CollapseWhitespace(article.Excerpt); excerpt != "" {
		return excerpt
	}
	if strings.TrimSpace(article.Content) == "" {
		return ""
	}
	md, err := c.markdown.ConvertString(article.Content, converter.WithDomain(parsed.Scheme+"://"+parsed.Host))
	if err != nil {
		slog.Debug("markdown conversion failed", "url", pageURL, "error", err)
		return ""
	}
	return markdownLead(md)
}

// markdownLead joins the leading prose paragraphs of md, skipping headings,
// lists, quotes, tables and code.
func markdownLead(md string) string {
	var parts []string
	n := 0
	for _, block := range strings.Split(md, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.ContainsAny(block[:1], "#!|->*`+") || strings.HasPrefix(block, "1.") {
			continue
		}
		text := mdLinkRe.ReplaceAllString(block, "$1")
		text = normalize.CollapseWhitespace(mdMarkupRe.ReplaceAllString(text, ""))
		if text == "" {
			continue
		}
		parts = append(parts, text)
		n += normalize.RuneLen(text)
		if n >= leadRunes {
			break
		}
	}
	return strings.Join(parts, " ")
}

// cutWords truncates s to limit characters, backing up to a word boundary.
func cutWords(s string, limit int) string {
	if normalize.RuneLen(s) <= limit {
		return s
	}
	cut := normalize.TruncateRunes(s, limit)
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}

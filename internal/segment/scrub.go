package segment

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var tagRe = regexp.MustCompile(`(?s)<(?:html|body|div|p|br|span|table|li|h[1-6])\b[^>]*>`)

// LooksLikeHTML reports whether pasted text appears to be HTML markup
// rather than plain legal text
func LooksLikeHTML(text string) bool {
	return tagRe.MatchString(text)
}

// ScrubHTML extracts the visible text from HTML input, skipping script and
// style content. Plain text passes through unchanged, and so does any input
// that fails to parse.
func ScrubHTML(text string) string {
	if !LooksLikeHTML(text) {
		return text
	}

	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return text
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				buf.WriteString(t)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

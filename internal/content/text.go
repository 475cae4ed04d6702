package content

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
)

// WordsPerMinute is the reading speed used for reading time estimates
const WordsPerMinute = 200

// StripHTML returns the visible text of an HTML fragment with whitespace collapsed.
// Text from separate elements is separated by a space so words never run together.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(html.UnescapeString(fragment)), " ")
	}

	var parts []string
	for _, n := range doc.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(n *nethtml.Node, parts *[]string) {
	if n.Type == nethtml.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == nethtml.TextNode {
		*parts = append(*parts, n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// WordCount counts whitespace separated words in plain text
func WordCount(plain string) int {
	return len(strings.Fields(plain))
}

// ReadingTime returns ceil(words / WordsPerMinute), never less than floor
func ReadingTime(words, floor int) int {
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < floor {
		return floor
	}
	return minutes
}

// Truncate returns at most n runes of s with trailing whitespace removed
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return strings.TrimSpace(s)
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n]))
}

// Excerpt returns the first n runes of plain text terminated by an ellipsis
func Excerpt(plain string, n int) string {
	return Truncate(plain, n) + "..."
}

// IsHTML reports whether s contains markup rather than plain text
func IsHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	return i >= 0 && strings.IndexByte(s[i:], '>') > 0
}

// Paragraphs wraps plain text in <p> elements, one per blank-line separated block.
// HTML input is returned unchanged.
func Paragraphs(s string) string {
	if IsHTML(s) {
		return s
	}

	var b strings.Builder
	for _, block := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		block = strings.Join(strings.Fields(block), " ")
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(block))
		b.WriteString("</p>\n")
	}
	return b.String()
}

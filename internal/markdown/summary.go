package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const summaryEllipsis = "..."

var summaryParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// Summarize returns the plain text of the leading paragraphs of body, cut at
// a word boundary so the result holds at most limit runes (ellipsis
// included). A limit <= 0 returns the full text of all paragraphs.
func Summarize(body []byte, limit int) string {
	doc := summaryParser.Parse(text.NewReader(body))

	var paragraphs []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if node.Kind() != ast.KindParagraph {
			continue
		}
		if para := strings.Join(strings.Fields(inlineText(node, body)), " "); para != "" {
			paragraphs = append(paragraphs, para)
		}
		if limit > 0 && utf8.RuneCountInString(strings.Join(paragraphs, " ")) >= limit {
			break
		}
	}
	return truncate(strings.Join(paragraphs, " "), limit)
}

func inlineText(node ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.URL(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.Image:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	budget := limit - utf8.RuneCountInString(summaryEllipsis)
	if budget <= 0 {
		return string([]rune(s)[:limit])
	}
	runes := []rune(s)[:budget+1]
	cut := strings.LastIndexByte(string(runes), ' ')
	if cut <= 0 {
		return string(runes[:budget]) + summaryEllipsis
	}
	return strings.TrimRight(string(runes)[:cut], " ,;:") + summaryEllipsis
}

// Package readme derives the one-line package description from a README
// document when the manifest does not carry one explicitly.
package readme

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Description extracts the first paragraph of a Markdown body as plain text,
// with internal line breaks collapsed to spaces. Returns "" when the body has
// no paragraph content.
func Description(body []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var para *gmast.Paragraph
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if p, ok := n.(*gmast.Paragraph); ok {
			para = p
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	if para == nil {
		return ""
	}

	var sb strings.Builder
	_ = gmast.Walk(para, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if txt, ok := n.(*gmast.Text); ok {
			sb.Write(txt.Segment.Value(body))
			if txt.SoftLineBreak() || txt.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return gmast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

// DescriptionFromFile reads path and extracts its first paragraph. A missing
// or unreadable README is reported to the caller, who decides whether that is
// fatal (it is not: description falls back to the manifest).
func DescriptionFromFile(path string) (string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read readme: %w", err)
	}
	return Description(body), nil
}

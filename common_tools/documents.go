package common_tools

import (
	"fmt"
	"strings"
)

const documentSeparator = "\n\n---\n\n"

// Document is one excerpt returned by a lookup tool.
type Document struct {
	Source  string
	Page    string
	Content string
}

func (d Document) String() string {
	return fmt.Sprintf("<Document source=\"%s\" page=\"%s\"/>\n%s\n</Document>", d.Source, d.Page, d.Content)
}

// FormatDocuments renders documents the way the model expects to read them.
func FormatDocuments(docs []Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, documentSeparator)
}

// truncateRunes cuts s to at most max characters.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// collapseSpace joins the whitespace-separated fields of s with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

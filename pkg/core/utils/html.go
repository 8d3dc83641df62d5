package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText returns the visible text of an HTML fragment with whitespace
// collapsed. Input that is not HTML comes back trimmed.
func HTMLToText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}
	doc.Find("script, style").Remove()
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package ecourts

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// hiddenElements hold code or inert markup rather than page text. noscript
// content is kept: it is ordinary text when scripting is off.
const hiddenElements = "script,style,template"

// VisibleText strips markup from a rendered page and returns its text nodes
// joined by single spaces. Input that fails to parse is whitespace-collapsed
// as-is.
func VisibleText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return collapseSpaces(rawHTML)
	}
	doc.Find(hiddenElements).Remove()

	var parts []string
	for _, root := range doc.Nodes {
		collectText(root, &parts)
	}
	return collapseSpaces(strings.Join(parts, " "))
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

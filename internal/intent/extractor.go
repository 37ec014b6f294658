package intent

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Element is one candidate interactive element found in page markup.
type Element struct {
	Text    string // visible label text
	Context string // DOM role: button | link | form-submit
	Tag     string // source tag: button | a | input
}

// ExtractElements scans rendered page markup and returns candidate
// interactive elements. The scan runs three independent passes in a
// fixed order (buttons, then non-external anchors, then submit-typed
// form inputs); within each pass elements appear in document order.
func ExtractElements(markup string) ([]Element, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse page markup: %w", err)
	}

	var elements []Element
	walk(doc, func(n *html.Node) {
		if n.Data == "button" {
			if text := nodeText(n); text != "" {
				elements = append(elements, Element{Text: text, Context: "button", Tag: "button"})
			}
		}
	})
	walk(doc, func(n *html.Node) {
		if n.Data == "a" && !isExternalHref(getAttr(n, "href")) {
			if text := nodeText(n); text != "" {
				elements = append(elements, Element{Text: text, Context: "link", Tag: "a"})
			}
		}
	})
	walk(doc, func(n *html.Node) {
		if n.Data == "input" && strings.EqualFold(getAttr(n, "type"), "submit") {
			if value := getAttr(n, "value"); value != "" {
				elements = append(elements, Element{Text: value, Context: "form-submit", Tag: "input"})
			}
		}
	})
	return elements, nil
}

// walk visits element nodes in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func getAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// nodeText collects the trimmed text content of a node's subtree.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func isExternalHref(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") || strings.HasPrefix(href, "//")
}

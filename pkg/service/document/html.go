package document

import (
	"bytes"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"golang.org/x/net/html"
)

// ignoredElements carry no document content
var ignoredElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"nav":      true,
}

// extractHTML converts the page body to markdown so that headings, lists and
// tables of a user story keep their structure in the prompt
func extractHTML(content []byte) (*extraction, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, goerr.Wrap(model.ErrIngestion, "failed to parse HTML", goerr.V("error", err.Error()))
	}
	removeIgnored(doc)

	var buf bytes.Buffer
	root := findElement(doc, "body")
	if root == nil {
		root = doc
	}
	if err := html.Render(&buf, root); err != nil {
		return nil, goerr.Wrap(model.ErrIngestion, "failed to render HTML", goerr.V("error", err.Error()))
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(buf.String())
	if err != nil {
		return nil, goerr.Wrap(model.ErrIngestion, "failed to convert HTML", goerr.V("error", err.Error()))
	}

	text := strings.TrimSpace(markdown)
	if title := findElement(doc, "title"); title != nil && title.FirstChild != nil {
		if t := strings.TrimSpace(title.FirstChild.Data); t != "" && !strings.Contains(text, t) {
			text = "# " + t + "\n\n" + text
		}
	}

	return &extraction{text: text, pages: 1}, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func removeIgnored(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode && ignoredElements[c.Data] {
			n.RemoveChild(c)
			continue
		}
		removeIgnored(c)
	}
}

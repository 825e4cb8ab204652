package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// contentSelectors are the known content containers across the target
// layouts, tried in order.
var contentSelectors = []string{
	"div.chapter-content",
	"#chapter-content",
	"div.text-left",
	"div.chapter-content-inner",
	"div.elementor-widget-container",
}

// landmarkSelectors locate the page's main content region when no known
// container matches.
var landmarkSelectors = []string{"main", "article", "body"}

// ChapterParagraphs extracts the chapter body as ordered non-empty text
// blocks. Within the first matching known container it collects paragraph
// elements; a container without paragraph tags falls back to its bare text
// fragments. When no known container matches at all, the main landmark,
// article landmark, or document body is tried the same way. An extraction
// yielding zero blocks is always an error, never an empty success.
func ChapterParagraphs(doc *goquery.Document) ([]string, string, error) {
	for _, selector := range contentSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		if blocks := paragraphBlocks(container); len(blocks) > 0 {
			return blocks, "known_container", nil
		}
		if blocks := textFragments(container); len(blocks) > 0 {
			return blocks, "container_fragments", nil
		}
		break
	}

	for _, selector := range landmarkSelectors {
		region := doc.Find(selector).First()
		if region.Length() == 0 {
			continue
		}
		if blocks := paragraphBlocks(region); len(blocks) > 0 {
			return blocks, "landmark", nil
		}
		if blocks := textFragments(region); len(blocks) > 0 {
			return blocks, "landmark_fragments", nil
		}
	}

	return nil, "", &NoStrategyError{Target: "chapter content"}
}

// paragraphBlocks collects every paragraph-level text node inside sel,
// trimmed, dropping empty ones, in document order.
func paragraphBlocks(sel *goquery.Selection) []string {
	var out []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// textFragments collects the stripped text fragments directly inside sel,
// for sites that don't wrap body text in paragraph tags. Script and style
// content is skipped.
func textFragments(sel *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				out = append(out, text)
			}
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	}
	for _, node := range sel.Nodes {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	return out
}

package extract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// rawChapter is a (title, absolute link) pair produced by a list strategy.
// Numbering is always derived afterwards, independent of which strategy
// matched.
type rawChapter struct {
	title string
	link  string
}

type listStrategy struct {
	name string
	fn   func(doc *goquery.Document, pageURL string) []rawChapter
}

// listStrategies is evaluated in order; the first non-empty result wins.
// Adding support for a new site layout means appending one entry.
var listStrategies = []listStrategy{
	{name: "known_containers", fn: knownContainerChapters},
	{name: "chapter_href_scan", fn: chapterHrefScan},
}

// listItemSelectors are the known structural shapes of chapter-list
// containers across the target layouts: list items, table rows, item divs.
var listItemSelectors = []string{
	"ul.list-chapter li",
	".list-chapter li",
	".panel-body li",
	"table.table-chapter tr",
	"div.chapter-item",
}

// ChapterList extracts chapter references from a parsed listing page.
// It returns the refs plus the name of the strategy that matched, or
// (nil, "") when no strategy yields anything.
func ChapterList(doc *goquery.Document, pageURL string, page int) ([]ChapterRef, string) {
	for _, s := range listStrategies {
		raw := s.fn(doc, pageURL)
		if len(raw) == 0 {
			continue
		}
		return numberChapters(raw, page), s.name
	}
	return nil, ""
}

func knownContainerChapters(doc *goquery.Document, pageURL string) []rawChapter {
	for _, selector := range listItemSelectors {
		items := doc.Find(selector)
		if items.Length() == 0 {
			continue
		}

		var out []rawChapter
		seen := map[string]bool{}
		items.Each(func(_ int, item *goquery.Selection) {
			a := item.Find("a[href]").First()
			href, ok := a.Attr("href")
			if !ok {
				return
			}
			link := resolveURL(pageURL, strings.TrimSpace(href))
			if link == "" || seen[link] {
				return
			}
			seen[link] = true

			title := strings.TrimSpace(a.Text())
			if title == "" {
				title = strings.TrimSpace(a.AttrOr("title", ""))
			}
			out = append(out, rawChapter{title: title, link: link})
		})

		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// chapterHrefScan is the generic fallback: every hyperlink whose target
// carries a chapter position marker is kept, wherever it sits in the page.
func chapterHrefScan(doc *goquery.Document, pageURL string) []rawChapter {
	var out []rawChapter
	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if !chapterMarkerRe.MatchString(href) {
			return
		}
		link := resolveURL(pageURL, href)
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		out = append(out, rawChapter{title: strings.TrimSpace(a.Text()), link: link})
	})
	return out
}

// numberChapters applies the per-link numbering rule and enforces number
// uniqueness within one listing: a later link deriving an already-used
// number is dropped rather than surfaced twice.
func numberChapters(raw []rawChapter, page int) []ChapterRef {
	refs := make([]ChapterRef, 0, len(raw))
	seen := map[int]bool{}
	for i, rc := range raw {
		n := ChapterNumber(rc.link, page, i)
		if seen[n] {
			continue
		}
		seen[n] = true

		title := rc.title
		if title == "" {
			title = "Chapter " + strconv.Itoa(n)
		}
		refs = append(refs, ChapterRef{
			ChapterNumber: n,
			ChapterTitle:  title,
			Link:          rc.link,
		})
	}
	return refs
}

// resolveURL makes href absolute against the page it was found on.
func resolveURL(pageURL, href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(u).String()
}

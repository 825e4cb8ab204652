package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// AssumedPageSize is the fixed page size used when a chapter link carries no
// explicit position marker. Numbers synthesized from it are a heuristic
// estimate, not guaranteed accurate.
const AssumedPageSize = 50

var (
	chapterMarkerRe = regexp.MustCompile(`(?i)chapter-0*([0-9]+)`)
	ofSummaryRe     = regexp.MustCompile(`(?i)([0-9][0-9,]*)\s+of\s+([0-9][0-9,]*)`)
)

// widgetSelector covers the common pagination widget shapes.
const widgetSelector = ".pagination a, .pagination li, .pagination span, ul.pagination a"

// summarySelector covers the regions where "X of Y" summary text appears
// near a chapter list.
const summarySelector = ".pagination, .page-info, .list-summary, .panel-footer"

// ChapterNumber derives the chapter number for one link. An explicit
// position marker in the URL wins; otherwise the number is synthesized from
// the page and the zero-based position in it.
func ChapterNumber(link string, page, index int) int {
	if m := chapterMarkerRe.FindStringSubmatch(link); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return (page-1)*AssumedPageSize + index + 1
}

// TotalPages infers the total page count from heterogeneous cues, tried in
// priority order with first-success-wins semantics. Later cues never refine
// an earlier result. With no cue at all the listing is assumed single-page.
func TotalPages(doc *goquery.Document, itemsOnPage int) int {
	if n, ok := maxWidgetNumber(doc); ok {
		return n
	}
	if n, ok := lastWidgetLinkPageParam(doc); ok {
		return n
	}
	if n, ok := summaryTotal(doc, itemsOnPage); ok {
		return n
	}
	return 1
}

// maxWidgetNumber scans the pagination widget for page-number links/text and
// takes the maximum.
func maxWidgetNumber(doc *goquery.Document) (int, bool) {
	highest := 0
	doc.Find(widgetSelector).Each(func(_ int, s *goquery.Selection) {
		text := strings.ReplaceAll(strings.TrimSpace(s.Text()), ",", "")
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 {
			return
		}
		if n > highest {
			highest = n
		}
	})
	return highest, highest > 0
}

// lastWidgetLinkPageParam inspects the last pagination link's target for an
// explicit page query parameter.
func lastWidgetLinkPageParam(doc *goquery.Document) (int, bool) {
	href, ok := doc.Find(".pagination a[href], ul.pagination a[href]").Last().Attr("href")
	if !ok {
		return 0, false
	}
	u, err := url.Parse(href)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// summaryTotal looks for "<current> of <total>" text near the list, where
// total counts items, and divides by the items extracted on this page
// (ceiling).
func summaryTotal(doc *goquery.Document, itemsOnPage int) (int, bool) {
	if itemsOnPage < 1 {
		return 0, false
	}
	m := ofSummaryRe.FindStringSubmatch(doc.Find(summarySelector).Text())
	if m == nil {
		return 0, false
	}
	total, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err != nil || total < 1 {
		return 0, false
	}
	return (total + itemsOnPage - 1) / itemsOnPage, true
}

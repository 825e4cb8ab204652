package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, raw string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	require.NoError(t, err)
	return doc
}

func TestChapterList_KnownContainer(t *testing.T) {
	doc := parseHTML(t, `
		<ul class="list-chapter">
			<li><a href="/book/my-novel/chapter-1">Chapter 1: Dawn</a></li>
			<li><a href="/book/my-novel/chapter-2">Chapter 2: Dusk</a></li>
			<li><a href="https://other.example/book/my-novel/chapter-3">Chapter 3</a></li>
		</ul>`)

	refs, strategy := ChapterList(doc, "https://novelbin.com/ajax/chapter-archive", 1)

	assert.Equal(t, "known_containers", strategy)
	require.Len(t, refs, 3)
	assert.Equal(t, ChapterRef{
		ChapterNumber: 1,
		ChapterTitle:  "Chapter 1: Dawn",
		Link:          "https://novelbin.com/book/my-novel/chapter-1",
	}, refs[0])
	assert.Equal(t, 2, refs[1].ChapterNumber)
	assert.Equal(t, "https://other.example/book/my-novel/chapter-3", refs[2].Link,
		"absolute links pass through untouched")
}

func TestChapterList_HrefScanFallback(t *testing.T) {
	doc := parseHTML(t, `
		<div>
			<a href="/about">About</a>
			<a href="/book/my-novel/chapter-42">The Answer</a>
			<a href="/book/my-novel/chapter-7">Lucky</a>
		</div>`)

	refs, strategy := ChapterList(doc, "https://site.example/list", 1)

	assert.Equal(t, "chapter_href_scan", strategy)
	require.Len(t, refs, 2)
	// Explicit position markers win regardless of list position.
	assert.Equal(t, 42, refs[0].ChapterNumber)
	assert.Equal(t, "The Answer", refs[0].ChapterTitle)
	assert.Equal(t, 7, refs[1].ChapterNumber)
}

func TestChapterList_SynthesizedNumbering(t *testing.T) {
	doc := parseHTML(t, `
		<ul class="list-chapter">
			<li><a href="/read/a1">First</a></li>
			<li><a href="/read/a2">Second</a></li>
			<li><a href="/read/a3">Third</a></li>
		</ul>`)

	refs, _ := ChapterList(doc, "https://site.example/list?page=3", 3)

	require.Len(t, refs, 3)
	// (page-1)*50 + index + 1 for links without a position marker.
	assert.Equal(t, 101, refs[0].ChapterNumber)
	assert.Equal(t, 102, refs[1].ChapterNumber)
	assert.Equal(t, 103, refs[2].ChapterNumber)
}

func TestChapterList_DuplicateLinksAndNumbers(t *testing.T) {
	doc := parseHTML(t, `
		<ul class="list-chapter">
			<li><a href="/book/n/chapter-5">Five</a></li>
			<li><a href="/book/n/chapter-5">Five again</a></li>
			<li><a href="/book/n/chapter-5?ref=sidebar">Five, other link</a></li>
		</ul>`)

	refs, _ := ChapterList(doc, "https://site.example/list", 1)

	require.Len(t, refs, 1, "chapter numbers are unique within one listing")
	assert.Equal(t, 5, refs[0].ChapterNumber)
	assert.Equal(t, "Five", refs[0].ChapterTitle)
}

func TestChapterList_EmptyTitleGetsPlaceholder(t *testing.T) {
	doc := parseHTML(t, `
		<ul class="list-chapter">
			<li><a href="/book/n/chapter-9"><img src="x.png"></a></li>
		</ul>`)

	refs, _ := ChapterList(doc, "https://site.example/list", 1)

	require.Len(t, refs, 1)
	assert.Equal(t, "Chapter 9", refs[0].ChapterTitle)
}

func TestChapterList_NoStrategyMatches(t *testing.T) {
	doc := parseHTML(t, `<div><p>Nothing to see here.</p><a href="/home">Home</a></div>`)

	refs, strategy := ChapterList(doc, "https://site.example/list", 1)

	assert.Empty(t, refs)
	assert.Empty(t, strategy)
}

func TestChapterList_Deterministic(t *testing.T) {
	raw := `
		<ul class="list-chapter">
			<li><a href="/book/n/chapter-1">One</a></li>
			<li><a href="/book/n/chapter-2">Two</a></li>
		</ul>
		<ul class="pagination"><li><a href="?page=2">2</a></li></ul>`

	first, _ := ChapterList(parseHTML(t, raw), "https://site.example/list", 1)
	second, _ := ChapterList(parseHTML(t, raw), "https://site.example/list", 1)

	assert.Equal(t, first, second, "identical HTML must extract identically")
}

// Package extract turns unpredictable novel-site HTML into structured
// results via ordered selector chains: each concern is an ordered list of
// strategies over a parsed document, evaluated first-match-wins.
package extract

// ChapterRef is one entry in a chapter listing. Link is always absolute;
// relative hrefs are resolved against the page URL before construction.
type ChapterRef struct {
	ChapterNumber int    `json:"chapterNumber"`
	ChapterTitle  string `json:"chapterTitle"`
	Link          string `json:"link"`
}

// ChapterListResult is the structured outcome of one listing extraction.
// TotalPages defaults to 1 when no pagination cue is present.
type ChapterListResult struct {
	Chapters    []ChapterRef `json:"chapters"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
}

// ChapterContent holds the extracted body of one chapter. Paragraphs is
// never empty on success; an empty extraction is reported as an error.
type ChapterContent struct {
	Paragraphs []string `json:"content"`
}

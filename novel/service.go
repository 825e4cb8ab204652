// Package novel composes fetching, parsing, and selector-chain extraction
// into the two public operations: list chapters and fetch chapter content.
package novel

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/akshat6745/audiobook-fullstack/config"
	"github.com/akshat6745/audiobook-fullstack/extract"
	"github.com/akshat6745/audiobook-fullstack/metrics"
)

// Fetcher performs exactly one fetch attempt with a fresh identity. The
// service owns the retry envelope, so a permanently failing target sees
// exactly MaxAttempts fetches per call.
type Fetcher interface {
	FetchOnce(ctx context.Context, url string, skipVerify bool) (string, error)
}

// Service is the extraction orchestrator. It is stateless across calls;
// every call re-fetches and re-parses from scratch.
type Service struct {
	fetcher Fetcher
	cfg     config.ScrapeConfig
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New builds the orchestrator.
func New(fetcher Fetcher, cfg config.ScrapeConfig, m *metrics.Metrics, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	return &Service{fetcher: fetcher, cfg: cfg, metrics: m, log: log}
}

// ListChapters fetches one page of a novel's chapter listing and infers its
// pagination summary.
func (s *Service) ListChapters(ctx context.Context, novelID string, page int) (*extract.ChapterListResult, error) {
	if err := validateNovelID(novelID); err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, &InvalidInputError{Param: "page", Reason: "must be a positive integer"}
	}

	target := s.listURL(novelID, page)

	var result *extract.ChapterListResult
	err := s.withRetries(ctx, "list_chapters", target, s.cfg.ListSite.VerifyTLS, func(doc *goquery.Document) error {
		chapters, strategy := extract.ChapterList(doc, target, page)
		if len(chapters) == 0 {
			return &extract.NoStrategyError{Target: "chapter list"}
		}
		s.metrics.IncStrategyHit("list_chapters", strategy)

		totalPages := extract.TotalPages(doc, len(chapters))
		if totalPages > 1 && totalPages < page {
			// A cue that contradicts the page being viewed is clamped
			// rather than trusted.
			totalPages = page
		}
		result = &extract.ChapterListResult{
			Chapters:    chapters,
			TotalPages:  totalPages,
			CurrentPage: page,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ChapterContent fetches one chapter page and extracts its text blocks.
func (s *Service) ChapterContent(ctx context.Context, novelID string, chapterNumber int) (*extract.ChapterContent, error) {
	if err := validateNovelID(novelID); err != nil {
		return nil, err
	}
	if chapterNumber < 1 {
		return nil, &InvalidInputError{Param: "chapterNumber", Reason: "must be a positive integer"}
	}

	target := s.chapterURL(novelID, chapterNumber)

	var content *extract.ChapterContent
	err := s.withRetries(ctx, "chapter_content", target, s.cfg.ContentSite.VerifyTLS, func(doc *goquery.Document) error {
		paragraphs, strategy, err := extract.ChapterParagraphs(doc)
		if err != nil {
			return err
		}
		s.metrics.IncStrategyHit("chapter_content", strategy)
		content = &extract.ChapterContent{Paragraphs: paragraphs}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

// withRetries runs up to MaxAttempts serial fetch+extract cycles. An attempt
// where the fetch succeeds but extraction yields nothing counts as a failed
// attempt and is retried the same way, with no inter-attempt delay.
func (s *Service) withRetries(ctx context.Context, operation, target string, verifyTLS bool, parse func(*goquery.Document) error) error {
	attempts := s.cfg.MaxAttempts

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			s.metrics.IncRetries()
		}

		err := s.attempt(ctx, target, verifyTLS, parse)
		if err == nil {
			s.metrics.IncExtraction(operation, "success")
			return nil
		}

		s.log.Warn("extraction attempt failed",
			slog.String("operation", operation),
			slog.String("url", target),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		if ctx.Err() != nil {
			break
		}
	}

	s.metrics.IncExtraction(operation, "failure")
	return &ExhaustedRetriesError{Operation: operation, Attempts: attempts}
}

func (s *Service) attempt(ctx context.Context, target string, verifyTLS bool, parse func(*goquery.Document) error) error {
	body, err := s.fetcher.FetchOnce(ctx, target, !verifyTLS)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return parse(doc)
}

// listURL templates the chapter-archive URL. The identifier travels as a
// query value, so it is escaped by construction.
func (s *Service) listURL(novelID string, page int) string {
	values := url.Values{}
	values.Set("novelId", novelID)
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	return strings.TrimRight(s.cfg.ListSite.BaseURL, "/") + "/ajax/chapter-archive?" + values.Encode()
}

// chapterURL templates the chapter page URL with the identifier escaped as a
// path segment.
func (s *Service) chapterURL(novelID string, chapterNumber int) string {
	return fmt.Sprintf("%s/book/%s/chapter-%d",
		strings.TrimRight(s.cfg.ContentSite.BaseURL, "/"),
		url.PathEscape(novelID),
		chapterNumber,
	)
}

func validateNovelID(novelID string) error {
	novelID = strings.TrimSpace(novelID)
	if novelID == "" {
		return &InvalidInputError{Param: "novelName", Reason: "must not be empty"}
	}
	if strings.ContainsAny(novelID, "/\\?#") {
		return &InvalidInputError{Param: "novelName", Reason: "contains path or query characters"}
	}
	return nil
}

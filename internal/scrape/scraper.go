// Package scrape fetches Godot class reference pages from the online manual.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public Godot documentation root.
const DefaultBaseURL = "https://docs.godotengine.org"

// Page is one scrapeable class reference page.
type Page struct {
	// Name is the page file stem, e.g. "class_node2d".
	Name string
	URL  string
}

// Scraper walks the class reference of one documentation version.
type Scraper struct {
	baseURL string
	client  *http.Client
	delay   time.Duration
	logger  *zap.Logger
}

// New creates a docs scraper. delay throttles successive page fetches.
func New(baseURL string, delay time.Duration, logger *zap.Logger) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		delay:   delay,
		logger:  logger,
	}
}

// ClassPages lists every class reference page of a docs version by parsing
// the class index TOC. Only links into class_* pages are kept.
func (s *Scraper) ClassPages(ctx context.Context, version string) ([]Page, error) {
	indexURL := fmt.Sprintf("%s/en/%s/classes/index.html", s.baseURL, version)

	doc, err := s.fetch(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch class index: %w", err)
	}

	base, err := url.Parse(fmt.Sprintf("%s/en/%s/classes/", s.baseURL, version))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var pages []Page
	seen := make(map[string]bool)
	doc.Find(".toctree-l1 a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.Contains(href, "class_") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""
		link := resolved.String()
		if seen[link] {
			return
		}
		seen[link] = true
		pages = append(pages, Page{Name: pageName(link), URL: link})
	})

	s.logger.Info("Class index scraped",
		zap.String("version", version),
		zap.Int("pages", len(pages)),
	)
	return pages, nil
}

// PageText extracts the readable text of one class page (its main content
// section). Successive calls are throttled by the configured delay.
func (s *Scraper) PageText(ctx context.Context, pageURL string) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}

	content := doc.Find(".section").First()
	if content.Length() == 0 {
		// Newer Sphinx themes emit <section> instead of div.section.
		content = doc.Find("section").First()
	}
	if content.Length() == 0 {
		return "", fmt.Errorf("no content section in %s", pageURL)
	}

	return content.Text(), nil
}

func (s *Scraper) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}

func pageName(link string) string {
	name := link[strings.LastIndex(link, "/")+1:]
	return strings.TrimSuffix(name, ".html")
}

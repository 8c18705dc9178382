package extract

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/echotrace/internal/cache"
)

// Extractor turns a URL into article text. Extraction results are cached so
// the same candidate fetched for several query variants costs one request.
type Extractor struct {
	fetcher *Fetcher
	cache   cache.Cache // nil disables caching
}

// NewExtractor creates an extractor. cache may be nil.
func NewExtractor(fetcher *Fetcher, c cache.Cache) *Extractor {
	return &Extractor{fetcher: fetcher, cache: c}
}

// Text fetches the URL and extracts its article text. Returns an error when
// the page is unreachable or yields no text.
func (e *Extractor) Text(ctx context.Context, rawURL string) (string, error) {
	key := cache.Key(rawURL)
	if e.cache != nil {
		if data, ok := e.cache.Get(key); ok {
			return string(data), nil
		}
	}

	page, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	text, err := ArticleText(page)
	if err != nil {
		return "", err
	}

	if e.cache != nil {
		_ = e.cache.Set(key, []byte(text), 0)
	}
	return text, nil
}

// ArticleText extracts readable article text from an HTML document,
// preferring paragraph content and falling back to all visible text for
// pages that don't mark up paragraphs.
func ArticleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	paragraphs := collectParagraphs(doc)
	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n\n"), nil
	}

	text := strings.TrimSpace(visibleText(doc))
	if text == "" {
		return "", fmt.Errorf("no extractable text")
	}
	return text, nil
}

// collectParagraphs gathers the text of <p> elements outside boilerplate
// containers.
func collectParagraphs(doc *html.Node) []string {
	var paragraphs []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "header", "footer", "aside":
				return
			case "p":
				text := strings.TrimSpace(visibleText(n))
				if text != "" {
					paragraphs = append(paragraphs, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return paragraphs
}

// visibleText extracts text nodes, skipping scripts and styles.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}

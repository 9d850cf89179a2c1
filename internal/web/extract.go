// Package web implements the webpage summary agent: a tool that fetches
// a page, extracts its readable text, and asks the model for a
// one-paragraph summary.
package web

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// maxPageBytes caps how much of a page is read.
const maxPageBytes = 2 << 20

// Page is the readable content extracted from a fetched webpage.
type Page struct {
	// URL is the fetched URL.
	URL string
	// Title is the document title, if present.
	Title string
	// Text is the visible text content, whitespace-normalized.
	Text string
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL format: scheme must be http or https")
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL format: missing host")
	}
	return nil
}

// Fetch downloads a page and extracts its title and visible text.
func Fetch(client *http.Client, pageURL string) (*Page, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxPageBytes)
	title, text, err := ExtractText(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	return &Page{URL: pageURL, Title: title, Text: text}, nil
}

// ExtractText parses HTML and returns the document title and the visible
// text with collapsed whitespace. Script and style content is dropped.
func ExtractText(r io.Reader) (title, text string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		case html.TextNode:
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				sb.WriteString(trimmed)
				sb.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, strings.TrimSpace(sb.String()), nil
}

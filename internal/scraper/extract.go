package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/shared"
)

const (
	summarySelector  = "div.setlistPreview"
	headlineSelector = "div.setlistHeadline"
	dateSelector     = "div.dateBlock"
	infoSelector     = "div.infoContainer"
	songSelector     = "a.songLabel"
)

// ParseError reports a page whose required containers are missing.
type ParseError struct {
	Element string // selector that matched nothing
	Err     error  // underlying read error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", shared.ErrParse, e.Err)
	}
	return fmt.Sprintf("%v: missing %s", shared.ErrParse, e.Element)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == shared.ErrParse }

// ExtractSummaries returns one summary per search result block, in document order.
//
// Relative result links are resolved against base. A page without result blocks yields an empty slice.
func ExtractSummaries(r io.Reader, base *url.URL) ([]models.SetlistSummary, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	summaries := []models.SetlistSummary{}
	doc.Find(summarySelector).Each(func(_ int, block *goquery.Selection) {
		summary := models.SetlistSummary{
			Date:      extractDate(block.Find(dateSelector).First()),
			SourceURL: resolveLink(base, block.Find("h2 a").First()),
		}

		block.Find("div.details span").Each(func(_ int, span *goquery.Selection) {
			text := span.Text()
			switch {
			case strings.Contains(text, "Artist:") && summary.ArtistName == "":
				summary.ArtistName = linkText(span, "a span")
			case strings.Contains(text, "Tour:") && summary.TourName == "":
				summary.TourName = linkText(span, "a")
			case strings.Contains(text, "Venue:") && summary.Venue == "":
				summary.Venue = linkText(span, "a span")
			}
		})

		summaries = append(summaries, summary)
	})

	return summaries, nil
}

// ExtractDetail returns the setlist described by a single event page.
func ExtractDetail(r io.Reader) (*models.SetlistDetail, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	headline := doc.Find(headlineSelector).First()
	if headline.Length() == 0 {
		return nil, &ParseError{Element: headlineSelector}
	}

	links := headline.Find("a")
	artist := clean(links.Eq(0).Text())
	if artist == "" {
		return nil, &ParseError{Element: headlineSelector + " a"}
	}

	dateBlock := doc.Find(dateSelector).First()
	if dateBlock.Length() == 0 {
		return nil, &ParseError{Element: dateSelector}
	}

	detail := &models.SetlistDetail{
		ArtistName: artist,
		TourName:   clean(doc.Find(infoSelector).First().Find("p").First().Find("a").First().Text()),
		Venue:      clean(links.Eq(1).Text()),
		Date:       extractDate(dateBlock),
		Songs:      []models.Song{},
	}

	doc.Find(songSelector).Each(func(_ int, label *goquery.Selection) {
		if name := strings.TrimSpace(label.Text()); name != "" {
			detail.Songs = append(detail.Songs, models.Song{Name: name, ArtistName: artist})
		}
	})

	return detail, nil
}

// extractDate joins the month, day and year spans as "Mar 14, 1998".
func extractDate(block *goquery.Selection) string {
	if block.Length() == 0 {
		return ""
	}
	month := clean(block.Find("span.month").First().Text())
	day := clean(block.Find("span.day").First().Text())
	year := clean(block.Find("span.year").First().Text())
	if month == "" && day == "" && year == "" {
		return ""
	}
	return fmt.Sprintf("%s %s, %s", month, day, year)
}

// linkText prefers the text at selector and falls back to the first link.
func linkText(s *goquery.Selection, selector string) string {
	if text := clean(s.Find(selector).First().Text()); text != "" {
		return text
	}
	return clean(s.Find("a").First().Text())
}

func resolveLink(base *url.URL, a *goquery.Selection) string {
	href, ok := a.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// clean trims and collapses internal whitespace.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

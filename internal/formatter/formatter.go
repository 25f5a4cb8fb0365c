// package formatter renders setlists, search results and synthesis reports as plain text, Markdown or CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/shared"
)

// Format selects an output rendering.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "md"
	CSV      Format = "csv"
)

// ParseFormat accepts "text", "md"/"markdown" and "csv".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "md", "markdown":
		return Markdown, nil
	case "csv":
		return CSV, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want text, md or csv)", shared.ErrInvalidInput, s)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	switch f {
	case Markdown:
		return ".md"
	case CSV:
		return ".csv"
	default:
		return ".txt"
	}
}

// SetlistToText renders the event header followed by a numbered song list, or "No songs listed."
func SetlistToText(detail *models.SetlistDetail) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Artist: %s\n", detail.ArtistName))
	if detail.HasTour() {
		buf.WriteString(fmt.Sprintf("Tour: %s\n", detail.TourName))
	}
	buf.WriteString(fmt.Sprintf("Venue: %s\n", detail.Venue))
	buf.WriteString(fmt.Sprintf("Date: %s\n\n", detail.Date))

	if len(detail.Songs) == 0 {
		buf.WriteString("No songs listed.\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("Songs (%d):\n", len(detail.Songs)))
	for i, song := range detail.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, song.Name))
	}
	return buf.Bytes()
}

// SetlistToMarkdown renders the setlist with a heading per event and an ordered song list.
func SetlistToMarkdown(detail *models.SetlistDetail) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", detail.ArtistName))
	if detail.HasTour() {
		buf.WriteString(fmt.Sprintf("**Tour**: %s\n", detail.TourName))
	}
	buf.WriteString(fmt.Sprintf("**Venue**: %s\n", detail.Venue))
	buf.WriteString(fmt.Sprintf("**Date**: %s\n", detail.Date))
	if detail.SourceURL != "" {
		buf.WriteString(fmt.Sprintf("**Source**: <%s>\n", detail.SourceURL))
	}

	buf.WriteString("\n## Songs\n\n")
	if len(detail.Songs) == 0 {
		buf.WriteString("_No songs listed._\n")
		return buf.Bytes()
	}
	for i, song := range detail.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, song.Name))
	}
	return buf.Bytes()
}

// SetlistToCSV converts the songs to CSV with columns: Position, Song, Artist, Venue, Date
func SetlistToCSV(detail *models.SetlistDetail) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Song", "Artist", "Venue", "Date"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range detail.Songs {
		record := []string{strconv.Itoa(i + 1), song.Name, song.ArtistName, detail.Venue, detail.Date}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSetlist renders detail in the requested format.
func RenderSetlist(detail *models.SetlistDetail, format Format) ([]byte, error) {
	if detail == nil {
		return nil, shared.ErrNoSelection
	}
	switch format {
	case Markdown:
		return SetlistToMarkdown(detail), nil
	case CSV:
		return SetlistToCSV(detail)
	default:
		return SetlistToText(detail), nil
	}
}

// WriteSetlistExport writes detail to path in the requested format.
//
// Defaults to the playlist name, made file-safe, with the format's extension.
func WriteSetlistExport(detail *models.SetlistDetail, format Format, path string) (string, error) {
	data, err := RenderSetlist(detail, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = Slug(detail.PlaylistName()) + format.Ext()
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write setlist file: %w", err)
	}
	return path, nil
}

// SummariesToText renders search results as an indexed list of labels.
func SummariesToText(summaries []models.SetlistSummary) []byte {
	var buf bytes.Buffer
	if len(summaries) == 0 {
		buf.WriteString("No setlists found.\n")
		return buf.Bytes()
	}
	for i, s := range summaries {
		buf.WriteString(fmt.Sprintf("%3d  %s\n", i, s.Label()))
	}
	return buf.Bytes()
}

// ReportToText summarizes a synthesis result, listing songs that were not found in setlist order.
func ReportToText(result *models.PlaylistResolutionResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", result.PlaylistName))
	if result.PlaylistID != "" {
		buf.WriteString(fmt.Sprintf("ID: %s\n", result.PlaylistID))
	}
	buf.WriteString(fmt.Sprintf("Result: %s\n", result.Summary()))

	if len(result.Failed) > 0 {
		buf.WriteString(fmt.Sprintf("\nNot found (%d):\n", len(result.Failed)))
		for _, song := range result.Failed {
			buf.WriteString(fmt.Sprintf("  - %s - %s\n", song.ArtistName, song.Name))
		}
	}
	return buf.Bytes()
}

// HistoryToText renders stored synthesis runs, one per line, newest first as given.
func HistoryToText(records []*models.SynthesisRecord) []byte {
	var buf bytes.Buffer
	if len(records) == 0 {
		buf.WriteString("No playlists created yet.\n")
		return buf.Bytes()
	}

	for _, r := range records {
		buf.WriteString(fmt.Sprintf("#%-4d %s  %-8s %3d/%-3d %s\n",
			r.Sequence(), r.CreatedAt().Local().Format(time.DateTime), r.Status(), r.AddedCount(), r.TotalSongs(), r.PlaylistName()))
		if msg := r.ErrorMessage(); msg != "" {
			buf.WriteString(fmt.Sprintf("      error: %s\n", msg))
		}
		for _, song := range r.Failed() {
			buf.WriteString(fmt.Sprintf("      not found: %s\n", song.Name))
		}
	}
	return buf.Bytes()
}

// Slug lowercases s and replaces every run of characters unsafe in file names with a single hyphen.
func Slug(s string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			hyphen = false
		case !hyphen && b.Len() > 0:
			b.WriteByte('-')
			hyphen = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "setlist"
	}
	return out
}

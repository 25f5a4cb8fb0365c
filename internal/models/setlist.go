package models

import (
	"fmt"
	"strings"
	"time"
)

// Song is one entry of a setlist. Immutable once extracted.
type Song struct {
	Name       string `json:"name"`
	ArtistName string `json:"artist"`
}

func (s Song) String() string {
	return s.Name
}

// SetlistSummary is a single search result.
//
// TourName is empty when the event is not part of a tour.
type SetlistSummary struct {
	ArtistName string `json:"artist"`
	TourName   string `json:"tour,omitempty"`
	Date       string `json:"date"`
	Venue      string `json:"venue"`
	SourceURL  string `json:"url"`
}

// Label renders the summary the way the result list shows it: "Artist--Date-[-Tour]-Venue".
func (s SetlistSummary) Label() string {
	tour := ""
	if s.TourName != "" {
		tour = "-" + s.TourName
	}
	return fmt.Sprintf("%s--%s-%s-%s", s.ArtistName, s.Date, tour, s.Venue)
}

// SetlistDetail is the selected event and its songs.
//
// An empty Songs slice is a valid setlist with nothing listed.
type SetlistDetail struct {
	ArtistName string `json:"artist"`
	TourName   string `json:"tour,omitempty"`
	Venue      string `json:"venue"`
	Date       string `json:"date"`
	SourceURL  string `json:"url,omitempty"`
	Songs      []Song `json:"songs"`
}

// HasTour reports whether a tour name was present on the page.
func (d *SetlistDetail) HasTour() bool {
	return d.TourName != ""
}

// PlaylistName derives "Artist-Tour-Venue", or "Artist-Venue" without a tour.
func (d *SetlistDetail) PlaylistName() string {
	if d.HasTour() {
		return fmt.Sprintf("%s-%s-%s", d.ArtistName, d.TourName, d.Venue)
	}
	return fmt.Sprintf("%s-%s", d.ArtistName, d.Venue)
}

// PlaylistDescription appends the event date and the creation day to the playlist name.
func (d *SetlistDetail) PlaylistDescription(created time.Time) string {
	return fmt.Sprintf("%s-%s---Created %s", d.PlaylistName(), d.Date, created.Format(time.DateOnly))
}

// Validate checks the fields synthesis depends on.
func (d *SetlistDetail) Validate() error {
	if d == nil {
		return fmt.Errorf("setlist detail is missing")
	}
	if strings.TrimSpace(d.ArtistName) == "" {
		return fmt.Errorf("setlist has no artist")
	}
	return nil
}

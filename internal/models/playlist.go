package models

import "fmt"

// TrackID is the provider's opaque track identifier.
type TrackID string

// URI returns the form used when submitting tracks to a playlist.
func (id TrackID) URI() string {
	return "spotify:track:" + string(id)
}

// Track is a single search match.
type Track struct {
	ID      TrackID
	Name    string
	Artists []string
	URI     string
}

// PlaylistResolutionResult is built while a setlist is turned into a playlist.
//
// Resolved and Failed together account for every song, each in original setlist order.
type PlaylistResolutionResult struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Resolved     []string `json:"resolved"`
	Failed       []Song   `json:"failed"`
	AddedCount   int      `json:"added"`
}

// Total is the number of songs processed.
func (r *PlaylistResolutionResult) Total() int {
	return len(r.Resolved) + len(r.Failed)
}

// Summary returns a one-line count such as "2 of 3 songs added".
func (r *PlaylistResolutionResult) Summary() string {
	return fmt.Sprintf("%d of %d songs added", r.AddedCount, r.Total())
}

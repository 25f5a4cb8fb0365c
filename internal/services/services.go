// package services defines the provider and setlist source contracts used by the synthesis pipeline
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/shared"
)

// Provider is the music service the playlist is written to.
//
// Every call takes the bearer token explicitly.
type Provider interface {
	// AuthCodeURL returns the consent page URL for state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (string, error)

	// FetchProfile returns the authenticated user.
	FetchProfile(ctx context.Context, token string) (*models.UserProfile, error)

	// CountPlaylists returns the user's playlist total, or 0 when it cannot be determined.
	CountPlaylists(ctx context.Context, token string) int

	// SearchTrack returns the best match for song, or nil when nothing matched.
	SearchTrack(ctx context.Context, token string, song models.Song) (*models.Track, error)

	// CreatePlaylist creates a private playlist owned by userID and returns its id.
	CreatePlaylist(ctx context.Context, token, userID, name, description string) (string, error)

	// AddTracks appends uris, in order, to the playlist.
	AddTracks(ctx context.Context, token, playlistID string, uris []string) error
}

// SetlistSource finds setlists and loads their song lists.
type SetlistSource interface {
	Search(ctx context.Context, query string) ([]models.SetlistSummary, error)
	FetchDetail(ctx context.Context, sourceURL string) (*models.SetlistDetail, error)
}

// APIError describes a failed provider call.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int   // 0 when no response was received
	Err        error // transport or decode error, if any
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%v: %s %s: status %d: %v", shared.ErrAPIRequest, e.Method, e.Endpoint, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %s %s: %v", shared.ErrAPIRequest, e.Method, e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%v: %s %s: status %d", shared.ErrAPIRequest, e.Method, e.Endpoint, e.StatusCode)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool { return target == shared.ErrAPIRequest }

// FetchError describes a setlist page that could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", shared.ErrFetch, e.URL, e.Err)
	}
	return fmt.Sprintf("%v: %s: status %d", shared.ErrFetch, e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == shared.ErrFetch }

package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/setlistr/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send status lines to the CLI or any other presentation layer.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
	Failed  bool   // Reports a recoverable failure within the phase
}

// Operation phase enumeration
type Phase int

const (
	Authorize Phase = iota
	AwaitCallback
	ExchangeCode
	FetchProfile
	SearchSetlists
	LoadSetlist
	CreatePlaylist
	SearchTracks
	AddTracks
	Complete
)

func (p Phase) String() string {
	switch p {
	case Authorize:
		return "authorize"
	case AwaitCallback:
		return "await_callback"
	case ExchangeCode:
		return "exchange_code"
	case FetchProfile:
		return "fetch_profile"
	case SearchSetlists:
		return "search_setlists"
	case LoadSetlist:
		return "load_setlist"
	case CreatePlaylist:
		return "create_playlist"
	case SearchTracks:
		return "search_tracks"
	case AddTracks:
		return "add_tracks"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update
	}
}

// deliverProgress blocks until update is sent, ctx ends or the deadline passes, for lines the user cannot do without.
func deliverProgress(ctx context.Context, progress chan<- ProgressUpdate, update ProgressUpdate, deadline time.Time) bool {
	if progress == nil {
		return false
	}
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case progress <- update:
		return true
	case <-ctx.Done():
		return false
	case <-timer.C:
		return false
	}
}

func openBrowserUpdate(authURL string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Authorize,
		Step:    1,
		Total:   4,
		Message: "Opening browser for Spotify authorization...",
		Data:    authURL,
	}
}

func manualURLUpdate(authURL string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Authorize,
		Step:    1,
		Total:   4,
		Message: fmt.Sprintf("Could not open a browser. Visit this URL to continue: %s", authURL),
		Data:    authURL,
		Failed:  true,
	}
}

func awaitCallbackUpdate(addr string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AwaitCallback,
		Step:    2,
		Total:   4,
		Message: fmt.Sprintf("Waiting for authorization on %s...", addr),
	}
}

func exchangeCodeUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExchangeCode,
		Step:    3,
		Total:   4,
		Message: "Exchanging authorization code...",
	}
}

func profileUpdate(session *models.AuthSession) ProgressUpdate {
	p := session.Profile
	return ProgressUpdate{
		Phase: FetchProfile,
		Step:  4,
		Total: 4,
		Message: fmt.Sprintf("Hello, %s! You have %d followers and %d playlists.",
			p.FirstName(), p.FollowerCount, session.PlaylistCount),
		Data: session,
	}
}

func searchSetlistsUpdate(query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchSetlists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Searching setlists for %q...", query),
	}
}

func searchResultsUpdate(query string, n int) ProgressUpdate {
	msg := fmt.Sprintf("Found %d setlists for %q", n, query)
	if n == 0 {
		msg = fmt.Sprintf("No setlists found for %q", query)
	}
	return ProgressUpdate{Phase: SearchSetlists, Step: 1, Total: 1, Message: msg}
}

func loadSetlistUpdate(summary models.SetlistSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadSetlist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loading setlist: %s", summary.Label()),
		Data:    summary,
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func playlistCreatedUpdate(name, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", name, id),
		Data:    id,
	}
}

func searchTrackUpdate(step, total int, song models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, song.ArtistName, song.Name),
	}
}

func trackMissedUpdate(step, total int, song models.Song, err error) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✗ %s - %s: no match", step, total, song.ArtistName, song.Name)
	if err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s - %s: %v", step, total, song.ArtistName, song.Name, err)
	}
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    song,
		Failed:  true,
	}
}

func addTracksUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Adding %d tracks...", step, total, count),
	}
}

func completeUpdate(result *models.PlaylistResolutionResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✓ %s: %s", result.PlaylistName, result.Summary()),
		Data:    result,
	}
}

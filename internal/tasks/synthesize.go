package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/services"
	"github.com/desertthunder/setlistr/internal/shared"
)

// MaxBatchSize is the most track URIs the provider accepts per add call.
const MaxBatchSize = 100

// Synthesizer turns a setlist into a playlist.
type Synthesizer interface {
	Synthesize(ctx context.Context, detail *models.SetlistDetail, session *models.AuthSession, progress chan<- ProgressUpdate) (*models.PlaylistResolutionResult, error)
}

// PlaylistEngine implements [Synthesizer] against a [services.Provider].
type PlaylistEngine struct {
	provider  services.Provider
	batchSize int
	now       func() time.Time
	logger    *log.Logger
}

// NewPlaylistEngine creates an engine that adds tracks in batches of batchSize, capped at [MaxBatchSize].
func NewPlaylistEngine(provider services.Provider, batchSize int, logger *log.Logger) *PlaylistEngine {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PlaylistEngine{
		provider:  provider,
		batchSize: batchSize,
		now:       time.Now,
		logger:    shared.WithLogger(logger, "task", "synthesize"),
	}
}

// SetClock replaces the clock used for the playlist description.
func (e *PlaylistEngine) SetClock(now func() time.Time) {
	e.now = now
}

// Synthesize creates a private playlist for detail and fills it with every song that resolves to a track.
//
// Songs are searched one at a time in setlist order. A song that fails to resolve is recorded and the loop moves on.
// Playlist creation failure, zero resolved songs, and a rejected add are terminal and returned as [*SynthesisError]
// carrying the result built so far.
func (e *PlaylistEngine) Synthesize(ctx context.Context, detail *models.SetlistDetail, session *models.AuthSession, progress chan<- ProgressUpdate) (*models.PlaylistResolutionResult, error) {
	if err := detail.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if !session.Authenticated() {
		return nil, fmt.Errorf("%w: sign in before creating a playlist", shared.ErrNotAuthenticated)
	}

	name := detail.PlaylistName()
	description := detail.PlaylistDescription(e.now())
	result := &models.PlaylistResolutionResult{
		PlaylistName: name,
		Resolved:     []string{},
		Failed:       []models.Song{},
	}

	sendProgress(progress, createPlaylistUpdate(name))
	playlistID, err := e.provider.CreatePlaylist(ctx, session.AccessToken, session.Profile.ID, name, description)
	if err != nil {
		e.logger.Error("playlist creation failed", "name", name, "error", err)
		return result, &SynthesisError{Stage: StageCreate, Result: result, Err: err}
	}
	result.PlaylistID = playlistID
	sendProgress(progress, playlistCreatedUpdate(name, playlistID))

	total := len(detail.Songs)
	for i, song := range detail.Songs {
		if err := ctx.Err(); err != nil {
			return result, &SynthesisError{Stage: StageResolve, Result: result, Err: err}
		}

		sendProgress(progress, searchTrackUpdate(i+1, total, song))
		track, err := e.provider.SearchTrack(ctx, session.AccessToken, song)
		if err != nil || track == nil {
			if err != nil {
				e.logger.Warn("track search failed", "song", song.Name, "error", err)
			}
			result.Failed = append(result.Failed, song)
			sendProgress(progress, trackMissedUpdate(i+1, total, song, err))
			continue
		}

		uri := track.URI
		if uri == "" {
			uri = track.ID.URI()
		}
		result.Resolved = append(result.Resolved, uri)
	}

	if len(result.Resolved) == 0 {
		e.logger.Warn("no songs resolved", "playlist", playlistID, "songs", total)
		return result, &SynthesisError{Stage: StageResolve, Result: result, Err: shared.ErrNoSongsAdded}
	}

	batches := (len(result.Resolved) + e.batchSize - 1) / e.batchSize
	for b := range batches {
		start := b * e.batchSize
		end := min(start+e.batchSize, len(result.Resolved))
		chunk := result.Resolved[start:end]

		sendProgress(progress, addTracksUpdate(b+1, batches, len(chunk)))
		if err := e.provider.AddTracks(ctx, session.AccessToken, playlistID, chunk); err != nil {
			e.logger.Error("adding tracks failed", "playlist", playlistID, "batch", b+1, "error", err)
			return result, &SynthesisError{Stage: StageAdd, Result: result, Err: err}
		}
		result.AddedCount += len(chunk)
	}

	e.logger.Info("playlist synthesized", "playlist", playlistID, "added", result.AddedCount, "failed", len(result.Failed))
	sendProgress(progress, completeUpdate(result))
	return result, nil
}

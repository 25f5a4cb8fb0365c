package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/services"
	"github.com/desertthunder/setlistr/internal/shared"
)

// Recorder stores the outcome of a synthesis run. err is nil on success.
type Recorder interface {
	Record(ctx context.Context, detail *models.SetlistDetail, result *models.PlaylistResolutionResult, err error) error
}

// Session is the caller-facing surface: authorize, search, select, then create.
//
// It owns the auth session, the last search results and the current selection. Methods are safe to call from
// multiple goroutines but are meant to be driven by a single caller.
type Session struct {
	auth     Authenticator
	source   services.SetlistSource
	engine   Synthesizer
	recorder Recorder
	logger   *log.Logger

	mu        sync.Mutex
	session   *models.AuthSession
	summaries []models.SetlistSummary
	selection *models.SetlistDetail
}

// NewSession wires the coordinator, setlist source and synthesis engine. recorder may be nil.
func NewSession(auth Authenticator, source services.SetlistSource, engine Synthesizer, recorder Recorder, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		auth:     auth,
		source:   source,
		engine:   engine,
		recorder: recorder,
		logger:   shared.WithLogger(logger, "task", "session"),
	}
}

// InitiateAuthorization runs one authorization attempt and keeps the resulting session.
func (s *Session) InitiateAuthorization(ctx context.Context, progress chan<- ProgressUpdate) (*models.AuthSession, error) {
	session, err := s.auth.Authorize(ctx, progress)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return session, nil
}

// Search replaces the held results with the setlists matching query. No matches is not an error.
func (s *Session) Search(ctx context.Context, query string, progress chan<- ProgressUpdate) ([]models.SetlistSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: enter an artist name", shared.ErrInvalidInput)
	}

	sendProgress(progress, searchSetlistsUpdate(query))
	summaries, err := s.source.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.summaries = nil
		return nil, err
	}
	s.summaries = summaries
	sendProgress(progress, searchResultsUpdate(query, len(summaries)))
	return summaries, nil
}

// SelectSetlist loads the setlist at index in the last search results and makes it the current selection.
func (s *Session) SelectSetlist(ctx context.Context, index int, progress chan<- ProgressUpdate) (*models.SetlistDetail, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.summaries) {
		n := len(s.summaries)
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: index %d out of range (%d results)", shared.ErrInvalidInput, index, n)
	}
	summary := s.summaries[index]
	s.mu.Unlock()

	if summary.SourceURL == "" {
		return nil, fmt.Errorf("%w: result %d has no setlist link", shared.ErrInvalidInput, index)
	}

	sendProgress(progress, loadSetlistUpdate(summary))
	detail, err := s.source.FetchDetail(ctx, summary.SourceURL)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.selection = detail
	s.mu.Unlock()
	return detail, nil
}

// CreatePlaylistFromSelection synthesizes a playlist from the current selection.
//
// The run is recorded when a recorder is set; a recording failure is logged and does not change the outcome.
func (s *Session) CreatePlaylistFromSelection(ctx context.Context, progress chan<- ProgressUpdate) (*models.PlaylistResolutionResult, error) {
	s.mu.Lock()
	session, detail := s.session, s.selection
	s.mu.Unlock()

	if !session.Authenticated() {
		return nil, fmt.Errorf("%w: authorize before creating a playlist", shared.ErrNotAuthenticated)
	}
	if detail == nil {
		return nil, shared.ErrNoSelection
	}

	result, err := s.engine.Synthesize(ctx, detail, session, progress)
	if s.recorder != nil && result != nil {
		if recErr := s.recorder.Record(ctx, detail, result, err); recErr != nil {
			s.logger.Warn("could not record synthesis", "error", recErr)
		}
	}
	return result, err
}

// AuthSession returns the current auth session, or nil before authorization.
func (s *Session) AuthSession() *models.AuthSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Summaries returns the last search results.
func (s *Session) Summaries() []models.SetlistSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries
}

// Selection returns the current setlist, or nil when nothing is selected.
func (s *Session) Selection() *models.SetlistDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

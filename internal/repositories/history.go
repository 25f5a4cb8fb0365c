package repositories

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/shared"
)

// HistoryRecorder stores every synthesis run through a [models.Repository].
type HistoryRecorder struct {
	repo   models.Repository[*models.SynthesisRecord]
	logger *log.Logger
}

// NewHistoryRecorder creates a recorder backed by repo.
func NewHistoryRecorder(repo models.Repository[*models.SynthesisRecord], logger *log.Logger) *HistoryRecorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HistoryRecorder{repo: repo, logger: shared.WithLogger(logger, "repository", "history")}
}

// Record stores the outcome of one run. err is the synthesis error, nil on success.
//
// A cancelled run is still recorded.
func (h *HistoryRecorder) Record(_ context.Context, detail *models.SetlistDetail, result *models.PlaylistResolutionResult, err error) error {
	record := models.NewSynthesisRecord(detail, result, StatusOf(result, err), err)
	if createErr := h.repo.Create(record); createErr != nil {
		return createErr
	}

	h.logger.Debug("recorded synthesis", "id", record.ID(), "status", record.Status())
	return nil
}

// StatusOf classifies a synthesis outcome.
func StatusOf(result *models.PlaylistResolutionResult, err error) models.SynthesisStatus {
	switch {
	case err == nil:
		return models.SynthesisComplete
	case result == nil || result.PlaylistID == "":
		return models.SynthesisFailed
	case errors.Is(err, shared.ErrNoSongsAdded):
		return models.SynthesisNoSongs
	default:
		return models.SynthesisPartial
	}
}

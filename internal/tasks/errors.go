package tasks

import (
	"fmt"

	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/shared"
)

// Stage names the synthesis step that failed.
type Stage string

const (
	StageCreate  Stage = "create_playlist"
	StageResolve Stage = "resolve_tracks"
	StageAdd     Stage = "add_tracks"
)

// SynthesisError is a terminal synthesis failure. Result holds whatever was built before the failure.
type SynthesisError struct {
	Stage  Stage
	Result *models.PlaylistResolutionResult
	Err    error
}

func (e *SynthesisError) Error() string {
	if e.Result != nil && e.Stage != StageCreate {
		return fmt.Sprintf("%v at %s (%s): %v", shared.ErrSynthesis, e.Stage, e.Result.Summary(), e.Err)
	}
	return fmt.Sprintf("%v at %s: %v", shared.ErrSynthesis, e.Stage, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

func (e *SynthesisError) Is(target error) bool { return target == shared.ErrSynthesis }

// PlaylistCreated reports whether the playlist exists on the provider despite the failure.
func (e *SynthesisError) PlaylistCreated() bool {
	return e.Result != nil && e.Result.PlaylistID != ""
}

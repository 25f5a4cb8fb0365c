package models

import (
	"fmt"
	"time"
)

// SynthesisStatus describes how a synthesis attempt ended.
type SynthesisStatus string

const (
	SynthesisComplete SynthesisStatus = "complete" // every resolved track was added
	SynthesisNoSongs  SynthesisStatus = "no_songs" // playlist created, nothing resolved
	SynthesisPartial  SynthesisStatus = "partial"  // playlist created, adding tracks failed
	SynthesisFailed   SynthesisStatus = "failed"   // playlist was not created
)

// SynthesisRecord is a stored playlist creation attempt.
type SynthesisRecord struct {
	id            string
	sequence      int
	playlistID    string
	playlistName  string
	setlist       SetlistSummary
	totalSongs    int
	resolvedCount int
	addedCount    int
	failed        []Song
	status        SynthesisStatus
	errorMessage  string
	createdAt     time.Time
	deletedAt     *time.Time
}

// NewSynthesisRecord captures a finished synthesis. err is the pipeline error, if any.
func NewSynthesisRecord(detail *SetlistDetail, result *PlaylistResolutionResult, status SynthesisStatus, err error) *SynthesisRecord {
	r := &SynthesisRecord{
		status:    status,
		createdAt: time.Now().UTC(),
	}
	if detail != nil {
		r.setlist = SetlistSummary{
			ArtistName: detail.ArtistName,
			TourName:   detail.TourName,
			Date:       detail.Date,
			Venue:      detail.Venue,
			SourceURL:  detail.SourceURL,
		}
		r.playlistName = detail.PlaylistName()
		r.totalSongs = len(detail.Songs)
	}
	if result != nil {
		r.playlistID = result.PlaylistID
		if result.PlaylistName != "" {
			r.playlistName = result.PlaylistName
		}
		r.resolvedCount = len(result.Resolved)
		r.addedCount = result.AddedCount
		r.failed = append([]Song(nil), result.Failed...)
	}
	if err != nil {
		r.errorMessage = err.Error()
	}
	return r
}

// RestoreSynthesisRecord rebuilds a record read from storage.
func RestoreSynthesisRecord(id string, sequence int, playlistID, playlistName string, setlist SetlistSummary,
	totalSongs, resolvedCount, addedCount int, status SynthesisStatus, errorMessage string,
	createdAt time.Time, deletedAt *time.Time) *SynthesisRecord {
	return &SynthesisRecord{
		id:            id,
		sequence:      sequence,
		playlistID:    playlistID,
		playlistName:  playlistName,
		setlist:       setlist,
		totalSongs:    totalSongs,
		resolvedCount: resolvedCount,
		addedCount:    addedCount,
		status:        status,
		errorMessage:  errorMessage,
		createdAt:     createdAt,
		deletedAt:     deletedAt,
	}
}

func (r *SynthesisRecord) ID() string { return r.id }
func (r *SynthesisRecord) Sequence() int { return r.sequence }
func (r *SynthesisRecord) PlaylistID() string { return r.playlistID }
func (r *SynthesisRecord) PlaylistName() string { return r.playlistName }
func (r *SynthesisRecord) Setlist() SetlistSummary { return r.setlist }
func (r *SynthesisRecord) TotalSongs() int { return r.totalSongs }
func (r *SynthesisRecord) ResolvedCount() int { return r.resolvedCount }
func (r *SynthesisRecord) AddedCount() int { return r.addedCount }
func (r *SynthesisRecord) Failed() []Song { return r.failed }
func (r *SynthesisRecord) Status() SynthesisStatus { return r.status }
func (r *SynthesisRecord) ErrorMessage() string { return r.errorMessage }
func (r *SynthesisRecord) CreatedAt() time.Time { return r.createdAt }
func (r *SynthesisRecord) DeletedAt() *time.Time { return r.deletedAt }
func (r *SynthesisRecord) SetID(id string) { r.id = id }
func (r *SynthesisRecord) SetSequence(seq int) { r.sequence = seq }
func (r *SynthesisRecord) SetFailed(songs []Song) { r.failed = songs }
func (r *SynthesisRecord) IsDeleted() bool { return r.deletedAt != nil }

// Validate checks that the record can be stored.
func (r *SynthesisRecord) Validate() error {
	if r.playlistName == "" {
		return fmt.Errorf("playlist name is required")
	}
	if r.setlist.ArtistName == "" {
		return fmt.Errorf("artist name is required")
	}
	switch r.status {
	case SynthesisComplete, SynthesisNoSongs, SynthesisPartial, SynthesisFailed:
	default:
		return fmt.Errorf("unknown status %q", r.status)
	}
	if r.resolvedCount+len(r.failed) > r.totalSongs {
		return fmt.Errorf("resolved (%d) and failed (%d) exceed total songs (%d)", r.resolvedCount, len(r.failed), r.totalSongs)
	}
	return nil
}

package models

import (
	"errors"
	"testing"
	"time"
)

func TestSetlistDetail(t *testing.T) {
	created := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		detail   SetlistDetail
		wantName string
		wantDesc string
	}{
		{
			name:     "with tour",
			detail:   SetlistDetail{ArtistName: "Radiohead", TourName: "OK Computer", Venue: "Roseland Ballroom", Date: "Mar 14, 1998"},
			wantName: "Radiohead-OK Computer-Roseland Ballroom",
			wantDesc: "Radiohead-OK Computer-Roseland Ballroom-Mar 14, 1998---Created 2026-03-14",
		},
		{
			name:     "without tour",
			detail:   SetlistDetail{ArtistName: "Phish", Venue: "Madison Square Garden", Date: "Dec 31, 1995"},
			wantName: "Phish-Madison Square Garden",
			wantDesc: "Phish-Madison Square Garden-Dec 31, 1995---Created 2026-03-14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.detail.PlaylistName(); got != tt.wantName {
				t.Errorf("PlaylistName() = %q, want %q", got, tt.wantName)
			}
			if got := tt.detail.PlaylistDescription(created); got != tt.wantDesc {
				t.Errorf("PlaylistDescription() = %q, want %q", got, tt.wantDesc)
			}
		})
	}

	t.Run("Validate", func(t *testing.T) {
		var missing *SetlistDetail
		if err := missing.Validate(); err == nil {
			t.Error("expected error for nil detail")
		}
		if err := (&SetlistDetail{ArtistName: "  "}).Validate(); err == nil {
			t.Error("expected error for blank artist")
		}
		if err := (&SetlistDetail{ArtistName: "Wilco"}).Validate(); err != nil {
			t.Errorf("expected valid detail with no songs, got %v", err)
		}
	})
}

func TestSetlistSummaryLabel(t *testing.T) {
	withTour := SetlistSummary{ArtistName: "Wilco", TourName: "Cruel Country", Date: "May 27, 2022", Venue: "The Anthem"}
	if got := withTour.Label(); got != "Wilco--May 27, 2022--Cruel Country-The Anthem" {
		t.Errorf("Label() = %q", got)
	}

	noTour := SetlistSummary{ArtistName: "Wilco", Date: "May 27, 2022", Venue: "The Anthem"}
	if got := noTour.Label(); got != "Wilco--May 27, 2022--The Anthem" {
		t.Errorf("Label() = %q", got)
	}
}

func TestAuthSession(t *testing.T) {
	var nilSession *AuthSession
	if nilSession.Authenticated() {
		t.Error("nil session should not be authenticated")
	}

	s := &AuthSession{AuthorizationCode: "code"}
	if s.Authenticated() {
		t.Error("session without token should not be authenticated")
	}

	s.AccessToken = "token"
	s.Profile = &UserProfile{ID: "user1", DisplayName: "Ada Lovelace"}
	if !s.Authenticated() {
		t.Error("session with token and profile should be authenticated")
	}

	if got := s.Profile.FirstName(); got != "Ada" {
		t.Errorf("FirstName() = %q, want Ada", got)
	}
	if got := (UserProfile{}).FirstName(); got != "User" {
		t.Errorf("FirstName() = %q, want User", got)
	}
}

func TestPlaylistResolutionResult(t *testing.T) {
	if got := TrackID("abc").URI(); got != "spotify:track:abc" {
		t.Errorf("URI() = %q", got)
	}

	r := &PlaylistResolutionResult{
		Resolved:   []string{"spotify:track:a", "spotify:track:b"},
		Failed:     []Song{{Name: "Unknown", ArtistName: "X"}},
		AddedCount: 2,
	}
	if r.Total() != 3 {
		t.Errorf("Total() = %d, want 3", r.Total())
	}
	if got := r.Summary(); got != "2 of 3 songs added" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestSynthesisRecord(t *testing.T) {
	detail := &SetlistDetail{
		ArtistName: "Wilco",
		Venue:      "The Anthem",
		Date:       "May 27, 2022",
		Songs:      []Song{{Name: "A", ArtistName: "Wilco"}, {Name: "B", ArtistName: "Wilco"}},
	}
	result := &PlaylistResolutionResult{
		PlaylistID:   "pl1",
		PlaylistName: detail.PlaylistName(),
		Resolved:     []string{"spotify:track:a"},
		Failed:       []Song{{Name: "B", ArtistName: "Wilco"}},
	}

	rec := NewSynthesisRecord(detail, result, SynthesisPartial, errors.New("add failed"))
	if err := rec.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rec.PlaylistID() != "pl1" || rec.TotalSongs() != 2 || rec.ResolvedCount() != 1 {
		t.Errorf("unexpected record fields: %+v", rec)
	}
	if rec.ErrorMessage() != "add failed" {
		t.Errorf("ErrorMessage() = %q", rec.ErrorMessage())
	}

	result.Failed[0].Name = "mutated"
	if rec.Failed()[0].Name != "B" {
		t.Error("record should own a copy of the failed songs")
	}

	bad := NewSynthesisRecord(detail, result, SynthesisStatus("weird"), nil)
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown status")
	}

	empty := NewSynthesisRecord(nil, nil, SynthesisFailed, nil)
	if err := empty.Validate(); err == nil {
		t.Error("expected error for record without a setlist")
	}
}

package tasks

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/shared"
	tu "github.com/desertthunder/setlistr/internal/testing"
)

var testSession = &models.AuthSession{
	AccessToken: "tok",
	Profile:     &models.UserProfile{ID: "u1", DisplayName: "Ada Lovelace"},
}

func songs(artist string, names ...string) []models.Song {
	out := make([]models.Song, len(names))
	for i, n := range names {
		out[i] = models.Song{Name: n, ArtistName: artist}
	}
	return out
}

func testDetail(names ...string) *models.SetlistDetail {
	return &models.SetlistDetail{
		ArtistName: "Radiohead",
		TourName:   "OK Computer",
		Venue:      "Roseland Ballroom",
		Date:       "Mar 14, 1998",
		Songs:      songs("Radiohead", names...),
	}
}

func newEngine(p *tu.MockProvider, batch int) *PlaylistEngine {
	e := NewPlaylistEngine(p, batch, nil)
	e.SetClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) })
	return e
}

func TestPlaylistEngine(t *testing.T) {
	t.Run("one unmatched song", func(t *testing.T) {
		p := &tu.MockProvider{
			PlaylistID: "pl1",
			Matches: map[string]*models.Track{
				"Airbag":       tu.Track("a", "Airbag"),
				"Karma Police": tu.Track("c", "Karma Police"),
			},
		}

		result, err := newEngine(p, 100).Synthesize(context.Background(), testDetail("Airbag", "Paranoid Android", "Karma Police"), testSession, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !reflect.DeepEqual(result.Resolved, []string{"spotify:track:a", "spotify:track:c"}) {
			t.Errorf("unexpected resolved %v", result.Resolved)
		}
		if !reflect.DeepEqual(result.Failed, songs("Radiohead", "Paranoid Android")) {
			t.Errorf("unexpected failed %v", result.Failed)
		}
		if len(p.Batches) != 1 || len(p.Batches[0]) != 2 {
			t.Errorf("expected one add call with 2 uris, got %v", p.Batches)
		}
		if result.AddedCount != 2 || result.Summary() != "2 of 3 songs added" {
			t.Errorf("unexpected summary %q", result.Summary())
		}
	})

	t.Run("playlist name and description", func(t *testing.T) {
		p := &tu.MockProvider{PlaylistID: "pl1", Matches: map[string]*models.Track{"Airbag": tu.Track("a", "Airbag")}}

		detail := testDetail("Airbag")
		if _, err := newEngine(p, 100).Synthesize(context.Background(), detail, testSession, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := tu.CreatedPlaylist{
			UserID:      "u1",
			Name:        "Radiohead-OK Computer-Roseland Ballroom",
			Description: "Radiohead-OK Computer-Roseland Ballroom-Mar 14, 1998---Created 2024-05-01",
		}
		if len(p.Created) != 1 || p.Created[0] != want {
			t.Errorf("got %+v, want %+v", p.Created, want)
		}

		p = &tu.MockProvider{PlaylistID: "pl2", Matches: map[string]*models.Track{"Airbag": tu.Track("a", "Airbag")}}
		detail.TourName = ""
		newEngine(p, 100).Synthesize(context.Background(), detail, testSession, nil)
		if p.Created[0].Name != "Radiohead-Roseland Ballroom" {
			t.Errorf("unexpected name without tour %q", p.Created[0].Name)
		}
	})

	t.Run("add failure after partial resolution", func(t *testing.T) {
		p := &tu.MockProvider{
			PlaylistID: "pl1",
			Matches: map[string]*models.Track{
				"Airbag":           tu.Track("a", "Airbag"),
				"Paranoid Android": tu.Track("b", "Paranoid Android"),
			},
			AddErrs: map[int]error{0: errors.New("status 403")},
		}

		result, err := newEngine(p, 100).Synthesize(context.Background(), testDetail("Airbag", "Paranoid Android", "Karma Police"), testSession, nil)

		var synthErr *SynthesisError
		if !errors.As(err, &synthErr) {
			t.Fatalf("expected *SynthesisError, got %v", err)
		}
		if synthErr.Stage != StageAdd || !synthErr.PlaylistCreated() {
			t.Errorf("expected add stage with playlist, got %+v", synthErr)
		}
		if result == nil || result.PlaylistID != "pl1" || len(result.Resolved) != 2 || result.AddedCount != 0 {
			t.Errorf("unexpected result %+v", result)
		}
		if synthErr.Result != result {
			t.Error("error should carry the returned result")
		}
		if !errors.Is(err, shared.ErrSynthesis) {
			t.Error("SynthesisError should match ErrSynthesis")
		}
	})

	t.Run("no songs", func(t *testing.T) {
		p := &tu.MockProvider{PlaylistID: "pl1"}

		result, err := newEngine(p, 100).Synthesize(context.Background(), testDetail(), testSession, nil)
		if !errors.Is(err, shared.ErrNoSongsAdded) {
			t.Fatalf("expected ErrNoSongsAdded, got %v", err)
		}
		if len(p.Batches) != 0 {
			t.Errorf("AddTracks should not be called, got %v", p.Batches)
		}
		if result.Total() != 0 || result.PlaylistID != "pl1" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("nothing resolves", func(t *testing.T) {
		p := &tu.MockProvider{
			PlaylistID: "pl1",
			SearchErrs: map[string]error{"Airbag": errors.New("status 500")},
		}

		result, err := newEngine(p, 100).Synthesize(context.Background(), testDetail("Airbag", "Lucky"), testSession, nil)

		var synthErr *SynthesisError
		if !errors.As(err, &synthErr) || synthErr.Stage != StageResolve {
			t.Fatalf("expected resolve stage error, got %v", err)
		}
		if !errors.Is(err, shared.ErrNoSongsAdded) {
			t.Errorf("expected ErrNoSongsAdded, got %v", err)
		}
		if len(result.Failed) != 2 || len(p.Searches) != 2 {
			t.Errorf("every song should be searched and recorded, got %+v", result)
		}
		if len(p.Batches) != 0 {
			t.Error("AddTracks should not be called")
		}
	})

	t.Run("create failure", func(t *testing.T) {
		p := &tu.MockProvider{CreateErr: errors.New("status 401")}

		result, err := newEngine(p, 100).Synthesize(context.Background(), testDetail("Airbag"), testSession, nil)

		var synthErr *SynthesisError
		if !errors.As(err, &synthErr) || synthErr.Stage != StageCreate {
			t.Fatalf("expected create stage error, got %v", err)
		}
		if synthErr.PlaylistCreated() || result.PlaylistID != "" {
			t.Error("no playlist should exist")
		}
		if len(p.Searches) != 0 {
			t.Errorf("no songs should be searched, got %v", p.Searches)
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name    string
			detail  *models.SetlistDetail
			session *models.AuthSession
			wantErr error
		}{
			{name: "nil detail", detail: nil, session: testSession, wantErr: shared.ErrInvalidInput},
			{name: "no artist", detail: &models.SetlistDetail{Venue: "x"}, session: testSession, wantErr: shared.ErrInvalidInput},
			{name: "nil session", detail: testDetail("Airbag"), session: nil, wantErr: shared.ErrNotAuthenticated},
			{name: "no token", detail: testDetail("Airbag"), session: &models.AuthSession{Profile: testSession.Profile}, wantErr: shared.ErrNotAuthenticated},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				p := &tu.MockProvider{PlaylistID: "pl1"}
				_, err := newEngine(p, 100).Synthesize(context.Background(), tt.detail, tt.session, nil)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				if len(p.Created) != 0 {
					t.Error("no network calls expected")
				}
			})
		}
	})

	t.Run("batches keep order", func(t *testing.T) {
		names := []string{"s1", "s2", "s3", "s4", "s5"}
		p := &tu.MockProvider{PlaylistID: "pl1", Matches: map[string]*models.Track{}}
		for _, n := range names {
			p.Matches[n] = tu.Track(n, n)
		}

		result, err := newEngine(p, 2).Synthesize(context.Background(), testDetail(names...), testSession, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var flat []string
		for _, b := range p.Batches {
			flat = append(flat, b...)
		}
		if len(p.Batches) != 3 || !reflect.DeepEqual(flat, result.Resolved) {
			t.Errorf("unexpected batches %v", p.Batches)
		}
		if result.AddedCount != 5 {
			t.Errorf("expected 5 added, got %d", result.AddedCount)
		}
	})

	t.Run("failed batch stops the rest", func(t *testing.T) {
		p := &tu.MockProvider{
			PlaylistID: "pl1",
			Matches:    map[string]*models.Track{"s1": tu.Track("1", "s1"), "s2": tu.Track("2", "s2"), "s3": tu.Track("3", "s3")},
			AddErrs:    map[int]error{1: errors.New("status 502")},
		}

		result, err := newEngine(p, 1).Synthesize(context.Background(), testDetail("s1", "s2", "s3"), testSession, nil)

		var synthErr *SynthesisError
		if !errors.As(err, &synthErr) || synthErr.Stage != StageAdd {
			t.Fatalf("expected add stage error, got %v", err)
		}
		if len(p.Batches) != 2 || result.AddedCount != 1 {
			t.Errorf("expected stop after second batch with 1 added, got %d batches, %d added", len(p.Batches), result.AddedCount)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		p := &tu.MockProvider{PlaylistID: "pl1"}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newEngine(p, 100).Synthesize(ctx, testDetail("Airbag"), testSession, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("progress", func(t *testing.T) {
		p := &tu.MockProvider{PlaylistID: "pl1", Matches: map[string]*models.Track{"Airbag": tu.Track("a", "Airbag")}}
		progress := make(chan ProgressUpdate, 32)

		if _, err := newEngine(p, 100).Synthesize(context.Background(), testDetail("Airbag", "Lucky"), testSession, progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var phases []string
		var missed int
		for u := range progress {
			phases = append(phases, u.Phase.String())
			if u.Failed {
				missed++
				if !strings.Contains(u.Message, "Lucky") {
					t.Errorf("miss should name the song, got %q", u.Message)
				}
			}
		}
		if phases[0] != "create_playlist" || phases[len(phases)-1] != "complete" {
			t.Errorf("unexpected phases %v", phases)
		}
		if missed != 1 {
			t.Errorf("expected 1 miss update, got %d", missed)
		}
	})

	t.Run("full progress channel does not block", func(t *testing.T) {
		p := &tu.MockProvider{PlaylistID: "pl1", Matches: map[string]*models.Track{"Airbag": tu.Track("a", "Airbag")}}
		progress := make(chan ProgressUpdate)

		if _, err := newEngine(p, 100).Synthesize(context.Background(), testDetail("Airbag"), testSession, progress); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestResolutionOrder(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g"}
	masks := []uint{0, 1, 0b0101010, 0b1111111, 0b1000001, 0b0011100}

	for _, mask := range masks {
		p := &tu.MockProvider{PlaylistID: "pl1", Matches: map[string]*models.Track{}}
		var wantFailed []models.Song
		for i, n := range names {
			if mask&(1<<i) != 0 {
				p.Matches[n] = tu.Track(n, n)
			} else {
				wantFailed = append(wantFailed, models.Song{Name: n, ArtistName: "Radiohead"})
			}
		}

		result, _ := newEngine(p, 3).Synthesize(context.Background(), testDetail(names...), testSession, nil)
		if got := len(result.Resolved) + len(result.Failed); got != len(names) {
			t.Errorf("mask %07b: resolved+failed = %d, want %d", mask, got, len(names))
		}
		if len(wantFailed) == 0 {
			wantFailed = []models.Song{}
		}
		if !reflect.DeepEqual(result.Failed, wantFailed) {
			t.Errorf("mask %07b: failed = %v, want %v", mask, result.Failed, wantFailed)
		}
	}
}

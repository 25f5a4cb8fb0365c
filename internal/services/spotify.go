// Spotify Web API implementation of [Provider]
//
// Response shapes follow https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// Scopes requested at consent time.
var Scopes = []string{
	"user-read-private",
	"user-read-email",
	"playlist-modify-private",
	"playlist-modify-public",
}

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Followers   followers `json:"followers"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	URI     string          `json:"uri"`
}

type trackPage struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

type searchResponse struct {
	Tracks trackPage `json:"tracks"`
}

type playlistPage struct {
	Total int `json:"total"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

// SpotifyPlaylist is the subset of the created playlist the app reads back.
type SpotifyPlaylist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService implements [Provider] for the Spotify Web API.
//
// The [oauth2.Config] only builds the consent URL and performs the code exchange; API calls use a bearer token
// supplied by the caller.
type SpotifyService struct {
	config     *oauth2.Config
	apiURL     string
	httpClient *http.Client
	logger     *log.Logger
}

// NewSpotifyService creates a Spotify client from credentials and endpoint settings.
//
// Empty endpoints fall back to the public Spotify URLs. A nil client uses [http.DefaultClient].
func NewSpotifyService(creds shared.SpotifyConfig, api shared.SpotifyAPIConfig, client *http.Client, logger *log.Logger) (*SpotifyService, error) {
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}
	if creds.RedirectURI == "" {
		return nil, fmt.Errorf("%w: missing redirect_uri", shared.ErrInvalidConfig)
	}

	authURL := valueOr(api.AuthURL, spotifyAuthURL)
	tokenURL := valueOr(api.TokenURL, spotifyTokenURL)
	apiURL := strings.TrimRight(valueOr(api.APIURL, spotifyBaseURL), "/")

	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &SpotifyService{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiURL:     apiURL,
		httpClient: client,
		logger:     shared.WithLogger(logger, "service", "spotify"),
	}, nil
}

// Name returns the provider's display name.
func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthCodeURL returns the consent page URL. Consent is forced so the user can pick the account every time.
func (s *SpotifyService) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for an access token.
//
// The token endpoint is POSTed form-encoded with the client credentials in the body.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: empty authorization code", shared.ErrAuthFailed)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: code exchange: %w", shared.ErrAuthFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token response has no access_token", shared.ErrAuthFailed)
	}

	s.logger.Debug("exchanged authorization code", "token_type", token.TokenType)
	return token.AccessToken, nil
}

// FetchProfile retrieves the current user's profile.
func (s *SpotifyService) FetchProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, token, http.MethodGet, "/me", nil, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, &APIError{Method: http.MethodGet, Endpoint: "/me", StatusCode: http.StatusOK, Err: errors.New("profile has no id")}
	}

	return &models.UserProfile{
		ID:            user.ID,
		DisplayName:   user.DisplayName,
		FollowerCount: user.Followers.Total,
	}, nil
}

// CountPlaylists returns the total number of the user's playlists.
//
// Only the page total is read, so a single item is requested. Failures yield 0.
func (s *SpotifyService) CountPlaylists(ctx context.Context, token string) int {
	var page playlistPage
	query := url.Values{"limit": {"1"}}
	if err := s.doRequest(ctx, token, http.MethodGet, "/me/playlists", query, nil, &page); err != nil {
		s.logger.Warn("could not count playlists", "error", err)
		return 0
	}
	return page.Total
}

// SearchTrack returns the top match for song, or nil when the search has no results.
func (s *SpotifyService) SearchTrack(ctx context.Context, token string, song models.Song) (*models.Track, error) {
	query := url.Values{
		"q":     {fmt.Sprintf("track:%s artist:%s", song.Name, song.ArtistName)},
		"type":  {"track"},
		"limit": {"1"},
	}

	var response searchResponse
	if err := s.doRequest(ctx, token, http.MethodGet, "/search", query, nil, &response); err != nil {
		return nil, err
	}
	if len(response.Tracks.Items) == 0 || response.Tracks.Items[0].ID == "" {
		s.logger.Debug("no match", "song", song.Name, "artist", song.ArtistName)
		return nil, nil
	}

	item := response.Tracks.Items[0]
	track := &models.Track{ID: models.TrackID(item.ID), Name: item.Name, URI: item.URI}
	for _, a := range item.Artists {
		track.Artists = append(track.Artists, a.Name)
	}
	if track.URI == "" {
		track.URI = track.ID.URI()
	}
	return track, nil
}

// CreatePlaylist creates a private playlist for userID and returns the new playlist id.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, token, userID, name, description string) (string, error) {
	if userID == "" || name == "" {
		return "", fmt.Errorf("%w: playlist needs an owner and a name", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	body := createPlaylistRequest{Name: name, Description: description, Public: false}

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, token, http.MethodPost, endpoint, nil, body, &playlist); err != nil {
		return "", err
	}
	if playlist.ID == "" {
		return "", &APIError{Method: http.MethodPost, Endpoint: endpoint, StatusCode: http.StatusCreated, Err: errors.New("response has no playlist id")}
	}

	s.logger.Info("created playlist", "playlist", playlist.ID, "name", name)
	return playlist.ID, nil
}

// AddTracks appends one batch of track URIs to the playlist, preserving order.
func (s *SpotifyService) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return fmt.Errorf("%w: no tracks to add", shared.ErrInvalidInput)
	}
	if playlistID == "" {
		return fmt.Errorf("%w: missing playlist id", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, token, http.MethodPost, endpoint, nil, addTracksRequest{URIs: uris}, nil); err != nil {
		return err
	}

	s.logger.Debug("added tracks", "playlist", playlistID, "count", len(uris))
	return nil
}

// doRequest performs an authenticated request against the Web API and decodes a JSON response into result.
func (s *SpotifyService) doRequest(ctx context.Context, token, method, endpoint string, query url.Values, body, result any) error {
	if token == "" {
		return fmt.Errorf("%w: missing access token", shared.ErrNotAuthenticated)
	}

	apiURL := s.apiURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Method: method, Endpoint: endpoint, Err: fmt.Errorf("failed to encode body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return &APIError{Method: method, Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &APIError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode}
		var eb errorBody
		if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb); err == nil && eb.Error.Message != "" {
			apiErr.Err = errors.New(eb.Error.Message)
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &APIError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}

	return nil
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

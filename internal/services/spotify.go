// Spotify Web API client
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
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
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/finchley/moodfm/internal/moods"
	"github.com/finchley/moodfm/internal/shared"
	"golang.org/x/time/rate"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// recommendationLimit caps how many tracks one mood selection returns.
	recommendationLimit = 10
)

// Authorizer supplies a valid bearer token, refreshing transparently when the
// stored one has expired.
type Authorizer interface {
	EnsureValid(ctx context.Context) (string, error)
}

// UserProfile is the authenticated user's profile.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Product     string `json:"product"` // premium, free, etc.
}

// Track is one recommended track.
type Track struct {
	ID            string
	Name          string
	Artists       []string
	AlbumImageURL string
	PreviewURL    string
	PlayURI       string
}

// Device is a remote playback device visible to the account.
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"is_active"`
}

type wireImage struct {
	URL string `json:"url"`
}

type wireArtist struct {
	Name string `json:"name"`
}

type wireAlbum struct {
	Images []wireImage `json:"images"`
}

type wireTrack struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Artists    []wireArtist `json:"artists"`
	Album      wireAlbum    `json:"album"`
	PreviewURL string       `json:"preview_url"`
	URI        string       `json:"uri"`
}

type recommendationsResponse struct {
	Tracks []wireTrack `json:"tracks"`
}

type devicesResponse struct {
	Devices []Device `json:"devices"`
}

// statusError carries the HTTP status of a failed API call.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v: status %d", shared.ErrAPIRequest, e.status)
}

func (e *statusError) Unwrap() error {
	return shared.ErrAPIRequest
}

func (t wireTrack) toTrack() Track {
	track := Track{
		ID:         t.ID,
		Name:       t.Name,
		PreviewURL: t.PreviewURL,
		PlayURI:    t.URI,
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, a.Name)
	}
	if len(t.Album.Images) > 0 {
		track.AlbumImageURL = t.Album.Images[0].URL
	}
	return track
}

// SpotifyClient makes authorized calls to the Spotify Web API.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client
	auth       Authorizer
	moods      *moods.Table
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOpts contains configuration options for creating a [SpotifyClient].
type ClientOpts struct {
	Auth       Authorizer
	Moods      *moods.Table
	HTTPClient *http.Client
	Logger     *log.Logger

	// BaseURL overrides the Web API endpoint, used by tests.
	BaseURL string
}

// NewSpotifyClient creates a new [SpotifyClient] with the given options.
func NewSpotifyClient(opts ClientOpts) (*SpotifyClient, error) {
	if opts.Auth == nil {
		return nil, fmt.Errorf("%w: authorizer is required", shared.ErrInvalidConfig)
	}
	if opts.Moods == nil {
		opts.Moods = moods.BuiltIn()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}

	return &SpotifyClient{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		auth:       opts.Auth,
		moods:      opts.Moods,
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
		logger:     opts.Logger,
	}, nil
}

// Moods exposes the client's mood table for listing and validation.
func (c *SpotifyClient) Moods() *moods.Table {
	return c.moods
}

// doRequest performs an authorized request and decodes the JSON response into
// result. A nil result skips decoding, for endpoints that answer 204.
func (c *SpotifyClient) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	token, err := c.auth.EnsureValid(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Error("spotify API error", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "body", string(respBody))
		return &statusError{status: resp.StatusCode}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			c.logger.Error("failed to decode spotify response", "endpoint", endpoint, "error", err)
			return fmt.Errorf("%w: malformed response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// Profile retrieves the current authenticated user's profile.
func (c *SpotifyClient) Profile(ctx context.Context) (*UserProfile, error) {
	var user UserProfile
	if err := c.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Recommendations retrieves tracks matching the given mood tag.
//
// Unknown tags resolve to the fallback profile. An empty result is a valid
// "no matches" outcome, distinct from a request failure.
func (c *SpotifyClient) Recommendations(ctx context.Context, moodTag string) ([]Track, error) {
	profile := c.moods.Resolve(moodTag)
	if !c.moods.Known(moodTag) {
		c.logger.Warn("unknown mood tag, using fallback profile", "mood", moodTag, "seed", profile.GenreSeed)
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(recommendationLimit))
	query.Set("seed_genres", profile.GenreSeed)
	if profile.TargetValence != nil {
		query.Set("target_valence", strconv.FormatFloat(*profile.TargetValence, 'f', -1, 64))
	}
	if profile.TargetEnergy != nil {
		query.Set("target_energy", strconv.FormatFloat(*profile.TargetEnergy, 'f', -1, 64))
	}

	var response recommendationsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/recommendations?"+query.Encode(), nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(response.Tracks))
	for _, wt := range response.Tracks {
		tracks = append(tracks, wt.toTrack())
	}

	c.logger.Info("fetched recommendations", "mood", moodTag, "count", len(tracks))
	return tracks, nil
}

// Devices lists the remote playback devices currently visible to the account.
func (c *SpotifyClient) Devices(ctx context.Context) ([]Device, error) {
	var response devicesResponse
	if err := c.doRequest(ctx, http.MethodGet, "/me/player/devices", nil, &response); err != nil {
		return nil, err
	}
	return response.Devices, nil
}

// PlayTrack issues a play command for the given track URI on the given device.
//
// A 403 or 404 response maps to [shared.ErrTrackNotPlayable]: remote playback
// control requires a premium-tier account.
func (c *SpotifyClient) PlayTrack(ctx context.Context, deviceID, trackURI string) error {
	endpoint := "/me/player/play?device_id=" + url.QueryEscape(deviceID)
	body := map[string][]string{"uris": {trackURI}}

	err := c.doRequest(ctx, http.MethodPut, endpoint, body, nil)
	if err == nil {
		return nil
	}

	var apiErr *statusError
	if errors.As(err, &apiErr) {
		if apiErr.status == http.StatusForbidden || apiErr.status == http.StatusNotFound {
			return fmt.Errorf("%w (status %d)", shared.ErrTrackNotPlayable, apiErr.status)
		}
	}

	return err
}

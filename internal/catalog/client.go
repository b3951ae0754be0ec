// Package catalog implements the client for the public album metadata API.
//
// The API is a flat method-dispatch surface: every call goes to the same
// endpoint with a "method" query parameter. Responses are JSON, but the
// provider is loose with shapes (strings where objects belong, objects where
// lists belong), so decoding happens through tolerant intermediate types and
// every parsed record carries a ParseStatus.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/shared"
	"golang.org/x/time/rate"
)

const defaultSearchLimit = 30

// Client talks to the metadata API with a shared rate limiter so bursts of
// debounced searches never trip the provider's quota.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a catalog client. ratePerSec bounds outgoing requests;
// zero or negative values disable the limiter.
func NewClient(baseURL, apiKey string, ratePerSec float64, client *http.Client, logger *log.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: client,
		limiter:    limiter,
		logger:     logger,
	}
}

func (c *Client) do(ctx context.Context, method string, params url.Values, result any) error {
	if c.apiKey == "" {
		return shared.ErrMissingAPIKey
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	params.Set("method", method)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return shared.ErrRateLimited
	}
	if resp.StatusCode >= 500 {
		return shared.ErrRemoteUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	// The provider reports some failures as a coded envelope with HTTP 200.
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != 0 {
		return fmt.Errorf("%w: %s (code %d)", shared.ErrAPIRequest, apiErr.Message, apiErr.Code)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// SearchAlbums searches albums by name. A non-positive limit uses the default.
func (c *Client) SearchAlbums(ctx context.Context, query string, limit int) ([]models.Album, ParseStatus, error) {
	if query == "" {
		return nil, ParsedOk, fmt.Errorf("%w: search query is required", shared.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	params := url.Values{}
	params.Set("album", query)
	params.Set("limit", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.do(ctx, "album.search", params, &resp); err != nil {
		return nil, ParsedOk, err
	}

	albums, status := parseAlbums(resp.Results.AlbumMatches.Album)
	return albums, status, nil
}

// AlbumInfo fetches a single album by artist and album name.
func (c *Client) AlbumInfo(ctx context.Context, artist, album string) (*models.Album, ParseStatus, error) {
	if artist == "" || album == "" {
		return nil, ParsedOk, fmt.Errorf("%w: artist and album are required", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("artist", artist)
	params.Set("album", album)

	var resp albumInfoResponse
	if err := c.do(ctx, "album.getinfo", params, &resp); err != nil {
		return nil, ParsedOk, err
	}
	if resp.Album.Name == "" {
		return nil, ParsedOk, shared.ErrAlbumNotFound
	}

	parsed, status := parseAlbum(resp.Album)
	return &parsed, status, nil
}

// AlbumInfoByID fetches a single album by its stable provider identifier.
func (c *Client) AlbumInfoByID(ctx context.Context, mbid string) (*models.Album, ParseStatus, error) {
	if mbid == "" {
		return nil, ParsedOk, fmt.Errorf("%w: album id is required", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("mbid", mbid)

	var resp albumInfoResponse
	if err := c.do(ctx, "album.getinfo", params, &resp); err != nil {
		return nil, ParsedOk, err
	}
	if resp.Album.Name == "" {
		return nil, ParsedOk, shared.ErrAlbumNotFound
	}

	parsed, status := parseAlbum(resp.Album)
	return &parsed, status, nil
}

// ArtistInfo fetches artist metadata including the bio summary.
func (c *Client) ArtistInfo(ctx context.Context, name string) (*models.Artist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: artist name is required", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("artist", name)

	var resp artistInfoResponse
	if err := c.do(ctx, "artist.getinfo", params, &resp); err != nil {
		return nil, err
	}

	return &models.Artist{
		MBID:      resp.Artist.MBID,
		Name:      resp.Artist.Name,
		URL:       resp.Artist.URL,
		Summary:   resp.Artist.Bio.Summary,
		Listeners: resp.Artist.Stats.Listeners,
		Images:    parseImages(resp.Artist.Image),
	}, nil
}

// ArtistTopAlbums lists an artist's most popular albums.
func (c *Client) ArtistTopAlbums(ctx context.Context, name string, limit int) ([]models.Album, ParseStatus, error) {
	if name == "" {
		return nil, ParsedOk, fmt.Errorf("%w: artist name is required", shared.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	params := url.Values{}
	params.Set("artist", name)
	params.Set("limit", strconv.Itoa(limit))

	var resp topAlbumsResponse
	if err := c.do(ctx, "artist.gettopalbums", params, &resp); err != nil {
		return nil, ParsedOk, err
	}

	albums, status := parseAlbums(resp.TopAlbums.Album)
	return albums, status, nil
}

// TagTopAlbums lists the most popular albums for a genre tag.
func (c *Client) TagTopAlbums(ctx context.Context, tag string, limit int) ([]models.Album, ParseStatus, error) {
	if tag == "" {
		return nil, ParsedOk, fmt.Errorf("%w: tag is required", shared.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	params := url.Values{}
	params.Set("tag", tag)
	params.Set("limit", strconv.Itoa(limit))

	var resp tagAlbumsResponse
	if err := c.do(ctx, "tag.gettopalbums", params, &resp); err != nil {
		return nil, ParsedOk, err
	}

	albums, status := parseAlbums(resp.Albums.Album)
	return albums, status, nil
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the remote movie catalog (The Movie Database API).
type Client struct {
	client       *http.Client
	apiKey       string
	baseURL      string
	imageBaseURL string
	cache        Cache
	logger       *log.Logger
}

// Config holds catalog client configuration.
type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string

	// Cache is an optional read-through cache for detail and genre lookups.
	Cache Cache

	// Timeout for a single request. Defaults to 10s.
	Timeout time.Duration
}

// NewClient creates a catalog client.
func NewClient(cfg Config, logger *log.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client:       &http.Client{Timeout: timeout},
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
		cache:        cfg.Cache,
		logger:       logger,
	}
}

// doRequest performs a GET against the catalog API and returns the raw body.
// Every failure is converted to one of the catalog error kinds.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrInvalidRequest, endpoint, err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrInvalidRequest, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Endpoint: endpoint}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyResponse, endpoint)
	}

	return body, nil
}

// Movies fetches one page of movies matching the filter. An empty filter
// query selects discover mode, a non-empty one selects search mode.
func (c *Client) Movies(ctx context.Context, f Filter, page int) (*MovieList, error) {
	endpoint, params := BuildQuery(f, page)

	body, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var list MovieList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: movie list: %v", ErrDecode, err)
	}

	return &list, nil
}

// Browse categories map to the catalog's curated movie listings. Unknown
// categories fall back to popular, matching the main-screen behavior.
const (
	CategoryNowPlaying = "now_playing"
	CategoryPopular    = "popular"
	CategoryTopRated   = "top_rated"
	CategoryUpcoming   = "upcoming"
)

// Browse fetches one page of a curated listing.
func (c *Client) Browse(ctx context.Context, category string, page int) (*MovieList, error) {
	switch category {
	case CategoryNowPlaying, CategoryPopular, CategoryTopRated, CategoryUpcoming:
	default:
		category = CategoryPopular
	}

	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("language", "en-US")
	params.Set("page", fmt.Sprintf("%d", page))

	body, err := c.doRequest(ctx, "/movie/"+category, params)
	if err != nil {
		return nil, err
	}

	var list MovieList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: browse list: %v", ErrDecode, err)
	}

	return &list, nil
}

// MovieDetails fetches the full record for one movie, consulting the cache
// first when one is configured.
func (c *Client) MovieDetails(ctx context.Context, movieID int) (*MovieDetail, error) {
	key := fmt.Sprintf("movie:%d", movieID)

	if cached, ok := c.cacheGet(ctx, key); ok {
		var detail MovieDetail
		if err := json.Unmarshal(cached, &detail); err == nil {
			return &detail, nil
		}
		// Unreadable cache entry, fall through to the API.
	}

	params := url.Values{}
	params.Set("language", "en-US")

	body, err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", movieID), params)
	if err != nil {
		return nil, err
	}

	var detail MovieDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("%w: movie %d: %v", ErrDecode, movieID, err)
	}

	c.cacheSet(ctx, key, body)

	return &detail, nil
}

// Genres fetches the movie genre list, consulting the cache first.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	const key = "genres"

	if cached, ok := c.cacheGet(ctx, key); ok {
		var list GenreList
		if err := json.Unmarshal(cached, &list); err == nil {
			return list.Genres, nil
		}
	}

	params := url.Values{}
	params.Set("language", "en-US")

	body, err := c.doRequest(ctx, "/genre/movie/list", params)
	if err != nil {
		return nil, err
	}

	var list GenreList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: genre list: %v", ErrDecode, err)
	}

	c.cacheSet(ctx, key, body)

	return list.Genres, nil
}

// ImageURL returns the full URL for an image path, or "" when there is none.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

func (c *Client) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(ctx, key)
}

func (c *Client) cacheSet(ctx context.Context, key string, val []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, val); err != nil {
		c.logger.Printf("Failed to cache %s: %v", key, err)
	}
}

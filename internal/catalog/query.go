package catalog

import (
	"net/url"
	"strconv"
)

// Filter holds the criteria for one search/discover session. The zero value
// means "no filters": discover mode, first page of popular results.
type Filter struct {
	// Query is the free-text search term. When non-empty the request is sent
	// to the search endpoint instead of discover, regardless of the other
	// fields. TMDB couples text search to the endpoint, so we must too.
	Query string

	// Year is an optional 4-digit release year.
	Year string

	// GenreID is an optional TMDB genre identifier.
	GenreID string

	// MinRating is an optional minimum vote average (0-10).
	MinRating *float64
}

const (
	endpointDiscover = "/discover/movie"
	endpointSearch   = "/search/movie"
)

// BuildQuery translates a filter plus a page number into the endpoint and
// query parameters for one catalog request. Pure; performs no I/O.
func BuildQuery(f Filter, page int) (endpoint string, params url.Values) {
	if page < 1 {
		page = 1
	}

	endpoint = endpointDiscover
	if f.Query != "" {
		endpoint = endpointSearch
	}

	params = url.Values{}
	params.Set("language", "en-US")
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(page))

	if f.Query != "" {
		params.Set("query", f.Query)
	}
	if f.Year != "" {
		params.Set("primary_release_year", f.Year)
	}
	if f.GenreID != "" {
		params.Set("with_genres", f.GenreID)
	}
	if f.MinRating != nil {
		params.Set("vote_average.gte", strconv.FormatFloat(*f.MinRating, 'f', -1, 64))
	}

	return endpoint, params
}

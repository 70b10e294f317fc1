// Package tmdb is the metadata provider client. It turns TMDB movie/TV
// payloads into WorkMetadata rows ready for upsert.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mandubird/ottsak/internal/model"
	"github.com/mandubird/ottsak/pkg/slug"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w500"

	watchRegion = "KR"

	// TMDB watch-provider ids for the platforms we track in Korea.
	providerNetflix = "8"
	providerDisney  = "337"

	// Pause between consecutive detail lookups.
	detailDelay = 120 * time.Millisecond
)

// ErrAPIKeyMissing means no credential is configured; batch callers fail
// fast on it since no item could succeed.
var ErrAPIKeyMissing = errors.New("tmdb: API key not configured")

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type detailPayload struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`         // movie
	OriginalTitle string  `json:"original_title"` // movie
	Name          string  `json:"name"`          // tv
	OriginalName  string  `json:"original_name"` // tv
	Genres        []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ReleaseDate  string   `json:"release_date"`   // movie
	FirstAirDate string   `json:"first_air_date"` // tv
	VoteAverage  *float64 `json:"vote_average"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	Overview     string   `json:"overview"`
}

type discoverPayload struct {
	Results []struct {
		ID int64 `json:"id"`
	} `json:"results"`
}

type multiSearchPayload struct {
	Results []struct {
		ID        int64  `json:"id"`
		MediaType string `json:"media_type"`
	} `json:"results"`
}

// SearchByTitle looks up a single work by title via multi-search and
// hydrates the first movie/TV hit. Returns (nil, nil) on no result.
func (c *Client) SearchByTitle(ctx context.Context, title string) (*model.WorkMetadata, error) {
	var payload multiSearchPayload
	err := c.get(ctx, "/search/multi", url.Values{"query": {title}, "page": {"1"}}, &payload)
	if err != nil {
		return nil, err
	}

	for _, hit := range payload.Results {
		switch hit.MediaType {
		case "movie":
			return c.movieDetail(ctx, hit.ID, nil)
		case "tv":
			return c.tvDetail(ctx, hit.ID, nil)
		}
	}
	return nil, nil
}

// TrendingWorks returns this week's trending movies and TV shows.
func (c *Client) TrendingWorks(ctx context.Context, movieLimit, tvLimit int) ([]model.WorkMetadata, error) {
	movies, err := c.trending(ctx, "movie", movieLimit)
	if err != nil {
		return nil, err
	}
	tvs, err := c.trending(ctx, "tv", tvLimit)
	if err != nil {
		return nil, err
	}
	return append(movies, tvs...), nil
}

// PopularInKorea returns works watchable on Netflix or Disney+ in Korea,
// ordered by TMDB popularity, with platform availability attached.
func (c *Client) PopularInKorea(ctx context.Context, movieLimit, tvLimit int) ([]model.WorkMetadata, error) {
	movies, err := c.discoverKind(ctx, "movie", movieLimit)
	if err != nil {
		return nil, err
	}
	tvs, err := c.discoverKind(ctx, "tv", tvLimit)
	if err != nil {
		return nil, err
	}
	return append(movies, tvs...), nil
}

func (c *Client) trending(ctx context.Context, kind string, limit int) ([]model.WorkMetadata, error) {
	var payload discoverPayload
	if err := c.get(ctx, "/trending/"+kind+"/week", nil, &payload); err != nil {
		return nil, err
	}

	rows := make([]model.WorkMetadata, 0, limit)
	for _, item := range payload.Results {
		if len(rows) >= limit {
			break
		}
		row, err := c.detailByKind(ctx, kind, item.ID, nil)
		if err != nil {
			continue // one missing detail never fails the batch
		}
		rows = append(rows, *row)
		sleep(ctx, detailDelay)
	}
	return rows, nil
}

func (c *Client) discoverKind(ctx context.Context, kind string, limit int) ([]model.WorkMetadata, error) {
	idToPlatforms := make(map[int64][]string)
	order := make([]int64, 0, limit)

	for _, p := range []struct {
		id   string
		name string
	}{{providerNetflix, "Netflix"}, {providerDisney, "Disney+"}} {
		var payload discoverPayload
		params := url.Values{
			"watch_region":         {watchRegion},
			"with_watch_providers": {p.id},
			"sort_by":              {"popularity.desc"},
		}
		if err := c.get(ctx, "/discover/"+kind, params, &payload); err != nil {
			return nil, err
		}
		for _, item := range payload.Results {
			if _, seen := idToPlatforms[item.ID]; !seen {
				order = append(order, item.ID)
			}
			idToPlatforms[item.ID] = appendUnique(idToPlatforms[item.ID], p.name)
		}
	}

	if len(order) > limit {
		order = order[:limit]
	}

	rows := make([]model.WorkMetadata, 0, len(order))
	for _, id := range order {
		row, err := c.detailByKind(ctx, kind, id, idToPlatforms[id])
		if err != nil {
			continue
		}
		rows = append(rows, *row)
		sleep(ctx, detailDelay)
	}
	return rows, nil
}

func (c *Client) detailByKind(ctx context.Context, kind string, id int64, platforms []string) (*model.WorkMetadata, error) {
	if kind == "movie" {
		return c.movieDetail(ctx, id, platforms)
	}
	return c.tvDetail(ctx, id, platforms)
}

func (c *Client) movieDetail(ctx context.Context, id int64, platforms []string) (*model.WorkMetadata, error) {
	var d detailPayload
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), nil, &d); err != nil {
		return nil, err
	}
	return toRow(d, model.WorkMovie, d.Title, d.OriginalTitle, d.ReleaseDate, platforms), nil
}

func (c *Client) tvDetail(ctx context.Context, id int64, platforms []string) (*model.WorkMetadata, error) {
	var d detailPayload
	if err := c.get(ctx, "/tv/"+strconv.FormatInt(id, 10), nil, &d); err != nil {
		return nil, err
	}
	return toRow(d, model.WorkSeries, d.Name, d.OriginalName, d.FirstAirDate, platforms), nil
}

func toRow(d detailPayload, kind model.WorkType, title, originalTitle, released string, platforms []string) *model.WorkMetadata {
	row := &model.WorkMetadata{
		Title:    title,
		Type:     kind,
		TMDBID:   d.ID,
		Platform: platforms,
	}
	row.Slug = slug.Make(firstNonEmpty(originalTitle, title), d.ID)
	if originalTitle != "" {
		row.TitleEN = &originalTitle
	}
	for _, g := range d.Genres {
		row.Genre = append(row.Genre, g.Name)
	}
	if t, err := time.Parse("2006-01-02", released); err == nil {
		row.ReleaseDate = &t
	}
	if d.VoteAverage != nil {
		r := float64(int(*d.VoteAverage*10+0.5)) / 10
		row.Rating = &r
	}
	if d.PosterPath != "" {
		u := imageBaseURL + d.PosterPath
		row.PosterURL = &u
	}
	if d.BackdropPath != "" {
		u := imageBaseURL + d.BackdropPath
		row.BackdropURL = &u
	}
	if d.Overview != "" {
		o := d.Overview
		row.Overview = &o
	}
	return row
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrAPIKeyMissing
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", "ko-KR")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tmdb %s: status %d: %s", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

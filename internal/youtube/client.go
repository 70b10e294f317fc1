// Package youtube is the video-search provider client (YouTube Data API v3).
// One Search call costs two requests: a search for candidate ids followed by
// a details lookup for titles, view counts, and durations.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mandubird/ottsak/internal/model"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// ErrAPIKeyMissing means no credential is configured. Callers treat this as
// fatal for the whole batch: without a key no item can succeed.
var ErrAPIKeyMissing = errors.New("youtube: API key not configured")

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

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type detailsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// Search runs a keyword search ordered by view count and returns hydrated
// candidates. Results the details call does not return (deleted or private
// videos) are silently dropped.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]model.CandidateVideo, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("order", "viewCount")
	params.Set("relevanceLanguage", "ko")
	params.Set("key", c.apiKey)

	var search searchResponse
	if err := c.get(ctx, "/search", params, &search); err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(search.Items))
	for _, it := range search.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	return c.Details(ctx, ids)
}

// Details fetches snippet, statistics, and duration for the given video ids.
func (c *Client) Details(ctx context.Context, videoIDs []string) ([]model.CandidateVideo, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(videoIDs, ","))
	params.Set("key", c.apiKey)

	var details detailsResponse
	if err := c.get(ctx, "/videos", params, &details); err != nil {
		return nil, fmt.Errorf("youtube details: %w", err)
	}

	candidates := make([]model.CandidateVideo, 0, len(details.Items))
	for _, it := range details.Items {
		views, _ := strconv.ParseInt(it.Statistics.ViewCount, 10, 64)
		published, _ := time.Parse(time.RFC3339, it.Snippet.PublishedAt)

		candidates = append(candidates, model.CandidateVideo{
			YouTubeID:    it.ID,
			Title:        it.Snippet.Title,
			ChannelName:  it.Snippet.ChannelTitle,
			ThumbnailURL: pickThumbnail(it.Snippet.Thumbnails),
			ViewCount:    views,
			DurationSec:  ParseISODuration(it.ContentDetails.Duration),
			PublishedAt:  published,
		})
	}
	return candidates, nil
}

func pickThumbnail(thumbs map[string]struct {
	URL string `json:"url"`
}) string {
	for _, key := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[key]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const searchJSON = `{
	"items": [
		{"id": {"videoId": "dQw4w9WgXcQ"}},
		{"id": {"videoId": ""}},
		{"id": {"videoId": "ab-cd_ef123"}}
	]
}`

const detailsJSON = `{
	"items": [
		{
			"id": "dQw4w9WgXcQ",
			"snippet": {
				"title": "무빙 공식 예고편",
				"channelTitle": "Disney Plus Korea",
				"publishedAt": "2026-03-01T09:00:00Z",
				"thumbnails": {
					"default": {"url": "https://img.example/default.jpg"},
					"high": {"url": "https://img.example/high.jpg"}
				}
			},
			"statistics": {"viewCount": "123456"},
			"contentDetails": {"duration": "PT2M10S"}
		},
		{
			"id": "ab-cd_ef123",
			"snippet": {
				"title": "무빙 리뷰",
				"channelTitle": "영화채널",
				"publishedAt": "not-a-time",
				"thumbnails": {
					"medium": {"url": "https://img.example/medium.jpg"}
				}
			},
			"statistics": {"viewCount": "not-a-number"},
			"contentDetails": {"duration": "PT45S"}
		}
	]
}`

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("order"); got != "viewCount" {
			t.Errorf("search order = %q, want %q", got, "viewCount")
		}
		if got := r.URL.Query().Get("q"); got != "무빙 예고편" {
			t.Errorf("search q = %q, want %q", got, "무빙 예고편")
		}
		w.Write([]byte(searchJSON))
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "dQw4w9WgXcQ,ab-cd_ef123" {
			t.Errorf("details id = %q, want joined ids without blanks", got)
		}
		w.Write([]byte(detailsJSON))
	})
	return httptest.NewServer(mux)
}

func TestSearch_HydratesCandidates(t *testing.T) {
	srv := newStubServer(t)
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL)
	got, err := c.Search(context.Background(), "무빙 예고편", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Search() returned %d candidates, want 2", len(got))
	}

	first := got[0]
	if first.YouTubeID != "dQw4w9WgXcQ" {
		t.Errorf("YouTubeID = %q", first.YouTubeID)
	}
	if first.Title != "무빙 공식 예고편" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.ChannelName != "Disney Plus Korea" {
		t.Errorf("ChannelName = %q", first.ChannelName)
	}
	if first.ViewCount != 123456 {
		t.Errorf("ViewCount = %d, want 123456", first.ViewCount)
	}
	if first.DurationSec != 130 {
		t.Errorf("DurationSec = %d, want 130", first.DurationSec)
	}
	if first.ThumbnailURL != "https://img.example/high.jpg" {
		t.Errorf("ThumbnailURL = %q, want the high variant", first.ThumbnailURL)
	}
	if first.PublishedAt.IsZero() {
		t.Error("PublishedAt should be parsed")
	}

	second := got[1]
	if second.ViewCount != 0 {
		t.Errorf("unparseable viewCount should yield 0, got %d", second.ViewCount)
	}
	if !second.PublishedAt.IsZero() {
		t.Error("unparseable publishedAt should yield zero time")
	}
	if second.ThumbnailURL != "https://img.example/medium.jpg" {
		t.Errorf("ThumbnailURL = %q, want the medium fallback", second.ThumbnailURL)
	}
}

func TestSearch_NoResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL)
	got, err := c.Search(context.Background(), "없는 작품", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Search() returned %d candidates, want 0", len(got))
	}
}

func TestSearch_MissingAPIKey(t *testing.T) {
	c := NewClient("")
	if _, err := c.Search(context.Background(), "무빙", 5); err != ErrAPIKeyMissing {
		t.Errorf("Search() error = %v, want ErrAPIKeyMissing", err)
	}
	if _, err := c.Details(context.Background(), []string{"dQw4w9WgXcQ"}); err != ErrAPIKeyMissing {
		t.Errorf("Details() error = %v, want ErrAPIKeyMissing", err)
	}
}

func TestSearch_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"message": "quotaExceeded"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL)
	_, err := c.Search(context.Background(), "무빙", 5)
	if err == nil {
		t.Fatal("Search() should fail on a non-200 response")
	}
	want := "status 403: quotaExceeded"
	if got := err.Error(); !strings.Contains(got, want) {
		t.Errorf("Search() error = %q, want it to contain %q", got, want)
	}
}

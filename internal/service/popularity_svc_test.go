package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mandubird/ottsak/internal/model"
	"github.com/mandubird/ottsak/internal/youtube"
)

func newTestPopularityService(searcher VideoSearcher) *PopularityService {
	return NewPopularityService(DefaultPopularityConfig(), searcher, zerolog.Nop())
}

func TestScore_SumsViewCounts(t *testing.T) {
	svc := newTestPopularityService(nil)

	got := svc.Score([]model.CandidateVideo{
		{ChannelName: "리뷰채널", ViewCount: 1000},
		{ChannelName: "클립채널", ViewCount: 250},
	})
	if got != 1250 {
		t.Errorf("score = %d, want 1250", got)
	}
}

func TestScore_OfficialChannelWeighted(t *testing.T) {
	svc := newTestPopularityService(nil)

	// 1000 × 1.5 + 200 × 1.0 = 1700
	got := svc.Score([]model.CandidateVideo{
		{ChannelName: "Netflix Korea", ViewCount: 1000},
		{ChannelName: "리뷰채널", ViewCount: 200},
	})
	if got != 1700 {
		t.Errorf("score = %d, want 1700", got)
	}
}

func TestScore_RoundsPerVideo(t *testing.T) {
	svc := newTestPopularityService(nil)

	// 333 × 1.5 = 499.5 rounds to 500 before summing.
	got := svc.Score([]model.CandidateVideo{
		{ChannelName: "넷플릭스 코리아", ViewCount: 333},
	})
	if got != 500 {
		t.Errorf("score = %d, want 500", got)
	}
}

func TestScore_Empty(t *testing.T) {
	svc := newTestPopularityService(nil)
	if got := svc.Score(nil); got != 0 {
		t.Errorf("score = %d, want 0 for no candidates", got)
	}
}

func TestEngagementScore_SearchFailureScoresZero(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("quota exceeded")}
	svc := newTestPopularityService(searcher)

	got, err := svc.EngagementScore(context.Background(), "무빙")
	if err != nil {
		t.Fatalf("transient failure must not propagate: %v", err)
	}
	if got != 0 {
		t.Errorf("score = %d, want 0 when the signal is unreachable", got)
	}
}

func TestEngagementScore_MissingCredentialPropagates(t *testing.T) {
	searcher := &fakeSearcher{err: youtube.ErrAPIKeyMissing}
	svc := newTestPopularityService(searcher)

	_, err := svc.EngagementScore(context.Background(), "무빙")
	if !errors.Is(err, youtube.ErrAPIKeyMissing) {
		t.Fatalf("err = %v, want ErrAPIKeyMissing", err)
	}
}

func TestEngagementScore_QueryIsTrailerOriented(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := newTestPopularityService(searcher)

	if _, err := svc.EngagementScore(context.Background(), "Moving"); err != nil {
		t.Fatal(err)
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "Moving 예고편" {
		t.Errorf("query = %v, want [Moving 예고편]", searcher.queries)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mandubird/ottsak/internal/model"
	"github.com/mandubird/ottsak/internal/youtube"
)

type fakeMetadata struct {
	popular  []model.WorkMetadata
	trending []model.WorkMetadata
	byTitle  map[string]*model.WorkMetadata
	err      error
}

func (f *fakeMetadata) PopularInKorea(_ context.Context, _, _ int) ([]model.WorkMetadata, error) {
	return f.popular, f.err
}

func (f *fakeMetadata) TrendingWorks(_ context.Context, _, _ int) ([]model.WorkMetadata, error) {
	return f.trending, f.err
}

func (f *fakeMetadata) SearchByTitle(_ context.Context, title string) (*model.WorkMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byTitle[title], nil
}

type fakeWorkStore struct {
	existing map[int64]bool
	upserts  []model.WorkMetadata
}

func (f *fakeWorkStore) Upsert(_ context.Context, row model.WorkMetadata) (string, error) {
	f.upserts = append(f.upserts, row)
	return "work-" + row.Slug, nil
}

func (f *fakeWorkStore) ExistsByTMDBID(_ context.Context, tmdbID int64) (bool, error) {
	return f.existing[tmdbID], nil
}

type fakeRankingStore struct {
	weekly   []model.WeeklyRanking
	monthly  []model.MonthlyRanking
	scores   []model.WeeklyScore
	storeErr error
}

func (f *fakeRankingStore) UpsertWeekly(_ context.Context, row model.WeeklyRanking) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.weekly = append(f.weekly, row)
	return nil
}

func (f *fakeRankingStore) UpsertMonthly(_ context.Context, row model.MonthlyRanking) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.monthly = append(f.monthly, row)
	return nil
}

func (f *fakeRankingStore) WeeklyScoresBetween(_ context.Context, _, _ time.Time) ([]model.WeeklyScore, error) {
	return f.scores, f.storeErr
}

// scoredSearcher returns a fixed candidate list per query so that different
// works end up with different engagement scores.
type scoredSearcher struct {
	byQuery map[string][]model.CandidateVideo
	err     error
}

func (s *scoredSearcher) Search(_ context.Context, query string, _ int) ([]model.CandidateVideo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byQuery[query], nil
}

func metaRow(slug, title string, tmdbID int64) model.WorkMetadata {
	return model.WorkMetadata{Slug: slug, Title: title, Type: model.WorkSeries, TMDBID: tmdbID}
}

func newTestRankingService(meta MetadataProvider, works WorkUpserter, store RankingStore, searcher VideoSearcher) *RankingService {
	cfg := DefaultRankingConfig()
	cfg.Delay = 0
	pop := NewPopularityService(DefaultPopularityConfig(), searcher, zerolog.Nop())
	return NewRankingService(cfg, meta, works, store, pop, zerolog.Nop())
}

func TestRankTopN_DenseRanksAndCap(t *testing.T) {
	scores := []WorkScore{
		{"a", 10}, {"b", 90}, {"c", 50}, {"d", 70}, {"e", 30},
		{"f", 20}, {"g", 80}, {"h", 60}, {"i", 40}, {"j", 15}, {"k", 5}, {"l", 1},
	}

	ranked := RankTopN(scores, 10)

	if len(ranked) != 10 {
		t.Fatalf("len = %d, want 10", len(ranked))
	}
	if ranked[0].WorkID != "b" || ranked[0].Score != 90 {
		t.Errorf("rank 1 = %+v, want b/90", ranked[0])
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("scores not descending at %d: %v", i, ranked)
		}
	}
}

func TestRankTopN_FewerThanN(t *testing.T) {
	ranked := RankTopN([]WorkScore{{"a", 1}, {"b", 2}}, 10)
	if len(ranked) != 2 {
		t.Errorf("len = %d, want 2 when fewer works than N", len(ranked))
	}
}

func TestRankTopN_TiesKeepInputOrder(t *testing.T) {
	scores := []WorkScore{{"first", 50}, {"second", 50}, {"third", 50}}

	ranked := RankTopN(scores, 10)

	want := []string{"first", "second", "third"}
	for i, w := range want {
		if ranked[i].WorkID != w {
			t.Errorf("position %d = %s, want %s", i, ranked[i].WorkID, w)
		}
	}
}

func TestComputeWeeklyRanking_OrdersByEngagement(t *testing.T) {
	meta := &fakeMetadata{popular: []model.WorkMetadata{
		metaRow("low", "low", 1),
		metaRow("high", "high", 2),
	}}
	searcher := &scoredSearcher{byQuery: map[string][]model.CandidateVideo{
		"low 예고편":  {{ChannelName: "클립채널", ViewCount: 100}},
		"high 예고편": {{ChannelName: "클립채널", ViewCount: 5000}},
	}}
	works := &fakeWorkStore{}
	store := &fakeRankingStore{}
	svc := newTestRankingService(meta, works, store, searcher)

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	summary, err := svc.ComputeWeeklyRanking(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Saved != 2 {
		t.Fatalf("saved = %d, want 2", summary.Saved)
	}
	if len(store.weekly) != 2 {
		t.Fatalf("stored %d rows, want 2", len(store.weekly))
	}
	if store.weekly[0].WorkID != "work-high" || store.weekly[0].Rank != 1 {
		t.Errorf("rank 1 = %+v, want work-high", store.weekly[0])
	}
	if store.weekly[1].WorkID != "work-low" || store.weekly[1].Rank != 2 {
		t.Errorf("rank 2 = %+v, want work-low", store.weekly[1])
	}
	if store.weekly[0].Score != 5000 {
		t.Errorf("rank 1 score = %.0f, want 5000 (the engagement score itself)", store.weekly[0].Score)
	}
}

func TestComputeWeeklyRanking_ISOWeekStamp(t *testing.T) {
	meta := &fakeMetadata{}
	svc := newTestRankingService(meta, &fakeWorkStore{}, &fakeRankingStore{}, &scoredSearcher{})

	// 2021-01-01 is a Friday and belongs to ISO week 53 of 2020.
	now := time.Date(2021, 1, 1, 9, 0, 0, 0, time.UTC)
	summary, err := svc.ComputeWeeklyRanking(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Year != 2020 || summary.Week != 53 {
		t.Errorf("stamp = %d/W%d, want 2020/W53", summary.Year, summary.Week)
	}
}

func TestComputeWeeklyRanking_MissingCredentialAborts(t *testing.T) {
	meta := &fakeMetadata{popular: []model.WorkMetadata{metaRow("a", "a", 1)}}
	searcher := &scoredSearcher{err: youtube.ErrAPIKeyMissing}
	store := &fakeRankingStore{}
	svc := newTestRankingService(meta, &fakeWorkStore{}, store, searcher)

	_, err := svc.ComputeWeeklyRanking(context.Background(), time.Now())
	if !errors.Is(err, youtube.ErrAPIKeyMissing) {
		t.Fatalf("err = %v, want ErrAPIKeyMissing", err)
	}
	if len(store.weekly) != 0 {
		t.Errorf("stored %d rows, want 0 — no partial ranking on aborted run", len(store.weekly))
	}
}

func TestComputeWeeklyRanking_CapsAtTopN(t *testing.T) {
	var popular []model.WorkMetadata
	byQuery := map[string][]model.CandidateVideo{}
	titles := []string{"t01", "t02", "t03", "t04", "t05", "t06", "t07", "t08", "t09", "t10", "t11", "t12"}
	for i, title := range titles {
		popular = append(popular, metaRow(title, title, int64(i+1)))
		byQuery[title+" 예고편"] = []model.CandidateVideo{
			{ChannelName: "클립채널", ViewCount: int64((len(titles) - i) * 100)},
		}
	}
	store := &fakeRankingStore{}
	svc := newTestRankingService(&fakeMetadata{popular: popular}, &fakeWorkStore{}, store, &scoredSearcher{byQuery: byQuery})

	summary, err := svc.ComputeWeeklyRanking(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Saved != 10 {
		t.Errorf("saved = %d, want 10", summary.Saved)
	}
	for i, row := range store.weekly {
		if row.Rank != i+1 {
			t.Errorf("row %d rank = %d, want dense %d", i, row.Rank, i+1)
		}
	}
}

func TestAverageByWork_MeanPerWork(t *testing.T) {
	observations := []model.WeeklyScore{
		{WorkID: "a", Score: 3},
		{WorkID: "b", Score: 10},
		{WorkID: "a", Score: 5},
		{WorkID: "a", Score: 7},
	}

	averaged := AverageByWork(observations)

	if len(averaged) != 2 {
		t.Fatalf("len = %d, want 2", len(averaged))
	}
	// First-seen order: a before b.
	if averaged[0].WorkID != "a" || averaged[0].Score != 5.0 {
		t.Errorf("a = %+v, want mean 5.0", averaged[0])
	}
	if averaged[1].WorkID != "b" || averaged[1].Score != 10.0 {
		t.Errorf("b = %+v, want mean 10.0", averaged[1])
	}
}

func TestComputeMonthlyRanking_RanksByMean(t *testing.T) {
	// A appeared three weeks averaging 5.0; B appeared once at 10.0.
	// A single strong week outranks a steady weaker month.
	store := &fakeRankingStore{scores: []model.WeeklyScore{
		{WorkID: "a", Score: 3},
		{WorkID: "a", Score: 5},
		{WorkID: "a", Score: 7},
		{WorkID: "b", Score: 10},
	}}
	svc := newTestRankingService(&fakeMetadata{}, &fakeWorkStore{}, store, &scoredSearcher{})

	now := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	summary, err := svc.ComputeMonthlyRanking(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Year != 2026 || summary.Month != 3 {
		t.Errorf("period = %d-%02d, want 2026-03 (previous month)", summary.Year, summary.Month)
	}
	if summary.Count != 2 {
		t.Fatalf("count = %d, want 2", summary.Count)
	}
	if store.monthly[0].WorkID != "b" || store.monthly[0].Rank != 1 || store.monthly[0].Score != 10.0 {
		t.Errorf("rank 1 = %+v, want b at 10.0", store.monthly[0])
	}
	if store.monthly[1].WorkID != "a" || store.monthly[1].Rank != 2 || store.monthly[1].Score != 5.0 {
		t.Errorf("rank 2 = %+v, want a at 5.0", store.monthly[1])
	}
}

func TestComputeMonthlyRanking_JanuaryLooksAtDecember(t *testing.T) {
	store := &fakeRankingStore{}
	svc := newTestRankingService(&fakeMetadata{}, &fakeWorkStore{}, store, &scoredSearcher{})

	now := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	summary, err := svc.ComputeMonthlyRanking(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Year != 2025 || summary.Month != 12 {
		t.Errorf("period = %d-%02d, want 2025-12", summary.Year, summary.Month)
	}
}

func TestSyncTrendingWorks_SplitsAddedAndUpdated(t *testing.T) {
	meta := &fakeMetadata{trending: []model.WorkMetadata{
		metaRow("new-work", "신작", 100),
		metaRow("old-work", "구작", 200),
	}}
	works := &fakeWorkStore{existing: map[int64]bool{200: true}}
	svc := NewWorkSyncService(DefaultWorkSyncConfig(), meta, works, zerolog.Nop())

	summary, err := svc.SyncTrendingWorks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Added != 1 || summary.Updated != 1 || summary.Total != 2 {
		t.Errorf("summary = %+v, want added=1 updated=1 total=2", summary)
	}
}

func TestImportWorksByTitle_SkipsMisses(t *testing.T) {
	hit := metaRow("moving", "무빙", 300)
	meta := &fakeMetadata{byTitle: map[string]*model.WorkMetadata{"무빙": &hit}}
	works := &fakeWorkStore{}
	cfg := DefaultWorkSyncConfig()
	cfg.Delay = 0
	svc := NewWorkSyncService(cfg, meta, works, zerolog.Nop())

	summary, err := svc.ImportWorksByTitle(context.Background(), []string{"무빙", "존재하지않는작품"})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Added != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want added=1 skipped=1", summary)
	}
	if len(works.upserts) != 1 || works.upserts[0].Slug != "moving" {
		t.Errorf("upserts = %+v, want just moving", works.upserts)
	}
}

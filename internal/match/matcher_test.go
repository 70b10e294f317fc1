package match

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"both empty", "", "", 0},
		{"one empty", "", "abc", 3},
		{"identical", "kitten", "kitten", 0},
		{"classic", "kitten", "sitting", 3},
		{"hangul runes not bytes", "무빙", "무빙2", 1},
		{"hangul substitution", "무빙", "무방", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Levenshtein(tt.a, tt.b); got != tt.want {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"identical ascii", "moving", "moving", 1.0},
		{"identical hangul", "닥터슬럼프", "닥터슬럼프", 1.0},
		{"disjoint", "abcd", "wxyz", 0.0},
		{"half", "ab", "ax", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %.3f, want %.3f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"무빙 시즌1", "무빙"},
		{"trailer", "teaser"},
		{"오징어 게임", "오징어게임"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if math.Abs(ab-ba) > 1e-12 {
			t.Errorf("Similarity(%q,%q)=%.6f but reversed=%.6f", p[0], p[1], ab, ba)
		}
	}
}

func TestTitleScoreExactInclude(t *testing.T) {
	tests := []struct {
		name       string
		videoTitle string
		workTitle  string
	}{
		{"korean trailer title", "무빙 시즌1 공식 예고편 | Disney+", "무빙"},
		{"review contains title", "닥터슬럼프 리뷰 역대급 로맨스의 귀환?", "닥터슬럼프"},
		{"identical strings", "더 글로리", "더 글로리"},
		{"case insensitive", "SQUID GAME Season 2 Trailer", "Squid Game"},
		{"surrounding whitespace trimmed", "  무빙 하이라이트  ", " 무빙 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleScore(tt.videoTitle, tt.workTitle)
			if got.Method != MethodExactInclude {
				t.Fatalf("method = %q, want %q", got.Method, MethodExactInclude)
			}
			if got.Score != 1.0 {
				t.Errorf("score = %.2f, want 1.00", got.Score)
			}
		})
	}
}

func TestTitleScoreWordMatch(t *testing.T) {
	// Full title "더 글로리 파트2" is not a substring ("더" is missing from the
	// video title), but both multi-rune tokens are present.
	got := TitleScore("글로리 파트2 결말 리뷰", "더 글로리 파트2")
	if got.Method != MethodWordMatch {
		t.Fatalf("method = %q, want %q", got.Method, MethodWordMatch)
	}
	if got.Score != 1.0 {
		t.Errorf("score = %.2f, want 1.00 (2/2 tokens)", got.Score)
	}
	if len(got.MatchedWords) != 2 {
		t.Errorf("matched words = %v, want 2 tokens", got.MatchedWords)
	}
}

func TestTitleScoreWordMatchDelimiters(t *testing.T) {
	// Tokens are split on -, :, (, ), [, ], / as well as whitespace. The
	// punctuation keeps the full title from being a substring, but every
	// token is present in the video title.
	got := TitleScore("스파이더맨 어크로스 유니버스 예고", "스파이더맨: 어크로스-유니버스")
	if got.Method != MethodWordMatch {
		t.Fatalf("method = %q, want %q", got.Method, MethodWordMatch)
	}
	if got.Score != 1.0 {
		t.Errorf("score = %.2f, want 1.00 (3/3 tokens)", got.Score)
	}
	if len(got.MatchedWords) != 3 {
		t.Errorf("matched words = %v, want 3 tokens", got.MatchedWords)
	}
}

func TestTitleScoreFuzzyNoOverlap(t *testing.T) {
	tests := []struct {
		name       string
		videoTitle string
		workTitle  string
		maxScore   float64
	}{
		{"unrelated korean", "아무 상관 없는 제목", "무빙", 0.5},
		{"spec example", "OTT 드라마 추천 TOP10", "무빙", 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleScore(tt.videoTitle, tt.workTitle)
			if got.Method != MethodFuzzy {
				t.Fatalf("method = %q, want %q", got.Method, MethodFuzzy)
			}
			if got.Score >= tt.maxScore {
				t.Errorf("score = %.2f, want < %.2f", got.Score, tt.maxScore)
			}
		})
	}
}

func TestTitleScoreFuzzyBlend(t *testing.T) {
	// One of two tokens hits (0.5 < 0.8), so the fuzzy blend applies:
	// 0.7*wordScore + 0.3*levScore, rounded to 2 decimals.
	got := TitleScore("무빙 하이라이트 모음", "무빙 시즌1")
	if got.Method != MethodFuzzy {
		t.Fatalf("method = %q, want %q", got.Method, MethodFuzzy)
	}
	if got.Score != math.Round(got.Score*100)/100 {
		t.Errorf("score %.6f not rounded to 2 decimals", got.Score)
	}
	if got.Score < 0.35 || got.Score > 0.6 {
		t.Errorf("score = %.2f, outside expected band for 1/2 token overlap", got.Score)
	}
	if len(got.MatchedWords) != 1 || got.MatchedWords[0] != "무빙" {
		t.Errorf("matched words = %v, want [무빙]", got.MatchedWords)
	}
}

func TestTitleScoreEmptyWorkTitle(t *testing.T) {
	// An empty work title is a substring of everything; exact_include wins.
	got := TitleScore("anything", "")
	if got.Method != MethodExactInclude || got.Score != 1.0 {
		t.Errorf("got %+v, want exact_include 1.0", got)
	}
}

func TestTitleScoreOnlyParticleTokens(t *testing.T) {
	// Work title made of single-rune tokens only: zero qualifying tokens,
	// word score defined as 0, falls to fuzzy.
	got := TitleScore("완전히 다른 영상", "더 봄")
	if got.Method != MethodFuzzy {
		t.Fatalf("method = %q, want %q", got.Method, MethodFuzzy)
	}
	if got.Score >= 0.5 {
		t.Errorf("score = %.2f, want < 0.5", got.Score)
	}
}

// Package classify assigns a coarse category to a video from its title and
// duration. Categorization is keyword- and duration-driven; it deliberately
// knows nothing about matching or scoring.
package classify

import "strings"

// VideoType is the coarse category assigned to an ingested video.
type VideoType string

const (
	TypeTrailer VideoType = "trailer"
	TypeShorts  VideoType = "shorts"
	TypeReview  VideoType = "review"
	TypeOther   VideoType = "other"
)

// Config carries the keyword lists and the shorts duration cutoff. Keywords
// are matched as case-insensitive substrings, so localized terms sit next to
// their English counterparts in the same list.
type Config struct {
	// ShortsMaxSeconds is the inclusive upper bound for the shorts check.
	ShortsMaxSeconds int
	TrailerKeywords  []string
	ReviewKeywords   []string
}

// DefaultConfig returns the keyword sets tuned for Korean OTT content.
func DefaultConfig() Config {
	return Config{
		ShortsMaxSeconds: 61,
		TrailerKeywords:  []string{"예고편", "trailer", "teaser", "티저"},
		ReviewKeywords:   []string{"리뷰", "review", "해설", "결말", "분석"},
	}
}

// Classifier categorizes videos according to its Config.
type Classifier struct {
	cfg Config
}

func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify maps a (title, duration) pair to exactly one VideoType.
//
// The duration check runs first: anything at most ShortsMaxSeconds long is a
// short regardless of its title, since YouTube surfaces such videos in the
// Shorts shelf no matter what they are called. Unknown durations (0 or
// negative) skip the check and fall through to the keyword rules.
func (c *Classifier) Classify(title string, durationSec int) VideoType {
	if durationSec > 0 && durationSec <= c.cfg.ShortsMaxSeconds {
		return TypeShorts
	}

	t := strings.ToLower(title)
	if containsAny(t, c.cfg.TrailerKeywords) {
		return TypeTrailer
	}
	if containsAny(t, c.cfg.ReviewKeywords) {
		return TypeReview
	}
	return TypeOther
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

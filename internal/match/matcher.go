package match

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Method identifies which matching strategy produced a result.
type Method string

const (
	MethodExactInclude Method = "exact_include"
	MethodWordMatch    Method = "word_match"
	MethodFuzzy        Method = "fuzzy"
)

// Result is the outcome of scoring a video title against a work title.
type Result struct {
	Score        float64  `json:"score"`
	Method       Method   `json:"method"`
	MatchedWords []string `json:"matchedWords,omitempty"`
}

// wordMatchThreshold is the token-hit fraction at which word matching is
// considered conclusive on its own.
const wordMatchThreshold = 0.8

// fuzzy blend weights: token overlap dominates, edit distance breaks near-misses.
const (
	wordWeight = 0.7
	levWeight  = 0.3
)

// isTitleDelimiter reports whether r separates tokens in a work title.
func isTitleDelimiter(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '-', ':', '(', ')', '[', ']', '/':
		return true
	}
	return false
}

// titleTokens splits a normalized work title into tokens, dropping tokens of
// a single rune. Single-character fragments are mostly Korean particles and
// match almost any title, so they carry no signal.
func titleTokens(title string) []string {
	fields := strings.FieldsFunc(title, isTitleDelimiter)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// TitleScore scores how well a candidate video title corresponds to a work
// title. Strategies are tried in order of confidence and the first
// conclusive one wins:
//
//  1. exact_include — the normalized video title contains the whole work
//     title as a substring. Score 1.0.
//  2. word_match — the fraction of work-title tokens found in the video
//     title is at least 0.8. Score is that fraction.
//  3. fuzzy — weighted blend of the token fraction (0.7) and Levenshtein
//     similarity (0.3), rounded to two decimals.
//
// The function is pure and never fails; every input pair maps to a Result.
func TitleScore(videoTitle, workTitle string) Result {
	vt := strings.ToLower(strings.TrimSpace(videoTitle))
	wt := strings.ToLower(strings.TrimSpace(workTitle))

	if strings.Contains(vt, wt) {
		return Result{Score: 1.0, Method: MethodExactInclude}
	}

	tokens := titleTokens(wt)
	var matched []string
	for _, tok := range tokens {
		if strings.Contains(vt, tok) {
			matched = append(matched, tok)
		}
	}

	var wordScore float64
	if len(tokens) > 0 {
		wordScore = float64(len(matched)) / float64(len(tokens))
	}

	if wordScore >= wordMatchThreshold {
		return Result{Score: wordScore, Method: MethodWordMatch, MatchedWords: matched}
	}

	levScore := Similarity(vt, wt)
	final := math.Round((wordScore*wordWeight+levScore*levWeight)*100) / 100

	return Result{Score: final, Method: MethodFuzzy, MatchedWords: matched}
}

package content

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minKeywordLength = 4

// stopWords are frequent English words long enough to pass the length filter
var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "been": {}, "before": {}, "being": {}, "could": {},
	"does": {}, "each": {}, "from": {}, "have": {}, "here": {}, "into": {}, "just": {},
	"like": {}, "many": {}, "more": {}, "most": {}, "much": {}, "only": {}, "other": {},
	"over": {}, "some": {}, "such": {}, "than": {}, "that": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "those": {}, "very": {},
	"want": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "while": {},
	"will": {}, "with": {}, "would": {}, "your": {},
}

// Keywords returns the n most frequent words of plain text. Words of three characters or
// fewer are dropped and ties go to the word that appears first.
func Keywords(plain string, n int) []string {
	if n <= 0 {
		return nil
	}

	type tally struct {
		word  string
		count int
		first int
	}

	counts := make(map[string]*tally)
	order := 0
	for _, token := range strings.FieldsFunc(strings.ToLower(plain), isWordBoundary) {
		token = strings.Trim(token, "'")
		if utf8.RuneCountInString(token) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if t, ok := counts[token]; ok {
			t.count++
			continue
		}
		counts[token] = &tally{word: token, count: 1, first: order}
		order++
	}

	ranked := make([]*tally, 0, len(counts))
	for _, t := range counts {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	words := make([]string, len(ranked))
	for i, t := range ranked {
		words[i] = t.word
	}
	return words
}

func isWordBoundary(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
}

// Package lexicon holds the reference tables shared by the analyzers: sentiment
// word lists per language, entity pattern families, context keyword rules and
// category keyword tables.
//
// Tables are built once with Default and handed to analyzers by constructor.
// Nothing in this package mutates a table after construction, and callers must
// treat the returned values as read-only.
package lexicon

import (
	"regexp"
	"sort"
	"strings"
)

const (
	LanguagePortuguese = "pt"
	LanguageEnglish    = "en"
)

// WordSet is an immutable set of normalized words.
type WordSet struct {
	words map[string]struct{}
}

func NewWordSet(words ...string) WordSet {
	set := WordSet{words: make(map[string]struct{}, len(words))}
	for _, word := range words {
		w := strings.ToLower(strings.TrimSpace(word))
		if w == "" {
			continue
		}
		set.words[w] = struct{}{}
	}
	return set
}

func (s WordSet) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

func (s WordSet) Len() int {
	return len(s.words)
}

// Sentiment groups the polarity word lists for one language.
type Sentiment struct {
	Language string
	Positive WordSet
	Negative WordSet
	Neutral  WordSet
}

// PatternFamily is the ordered set of expressions recognizing one entity type.
type PatternFamily struct {
	Type     string
	Patterns []*regexp.Regexp
}

// ContextRule maps keyword hits to a coarse domain tag.
type ContextRule struct {
	Tag      string
	Keywords []string
}

// CategoryKeywords is one row of the open-set classifier table.
type CategoryKeywords struct {
	Name      string
	Primary   []string
	Secondary []string
}

// FixedCategory is one of the canonical categories used by the closed-set classifier.
type FixedCategory struct {
	Name     string
	Keywords []string
}

// Synonym remaps a free-form backend label onto a canonical category.
type Synonym struct {
	Term     string
	Category string
}

type Tables struct {
	sentiment       map[string]Sentiment
	Entities        []PatternFamily
	Contexts        []ContextRule
	Categories      []CategoryKeywords
	FixedCategories []FixedCategory
	Synonyms        []Synonym
}

// Default builds the bundled tables.
func Default() *Tables {
	return &Tables{
		sentiment: map[string]Sentiment{
			LanguagePortuguese: portugueseSentiment(),
			LanguageEnglish:    englishSentiment(),
		},
		Entities:        entityPatterns(),
		Contexts:        contextRules(),
		Categories:      categoryKeywords(),
		FixedCategories: fixedCategories(),
		Synonyms:        categorySynonyms(),
	}
}

// Sentiment returns the lexicon for an ISO 639-1 code.
func (t *Tables) Sentiment(language string) (Sentiment, bool) {
	if t == nil {
		return Sentiment{}, false
	}
	lexicon, ok := t.sentiment[strings.ToLower(strings.TrimSpace(language))]
	return lexicon, ok
}

// Languages lists the languages with a sentiment lexicon, sorted.
func (t *Tables) Languages() []string {
	if t == nil {
		return nil
	}
	languages := make([]string, 0, len(t.sentiment))
	for language := range t.sentiment {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

// FixedCategoryNames returns the canonical category names in table order.
func (t *Tables) FixedCategoryNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.FixedCategories))
	for _, category := range t.FixedCategories {
		names = append(names, category.Name)
	}
	return names
}

package entities

import (
	"sort"
	"strings"
	"unicode/utf8"

	"horse.fit/newsanalysis/internal/lexicon"
	"horse.fit/newsanalysis/internal/textnorm"
)

const (
	DefaultCap            = 10
	DefaultMinContextHits = 1

	minEntityRunes = 3
)

type Options struct {
	// Cap bounds the number of values kept per entity type.
	Cap int
	// MinContextHits is the number of distinct keywords a context rule needs.
	MinContextHits int
}

func DefaultOptions() Options {
	return Options{
		Cap:            DefaultCap,
		MinContextHits: DefaultMinContextHits,
	}
}

type contextRule struct {
	tag      string
	keywords []string
}

type Extractor struct {
	families []lexicon.PatternFamily
	rules    []contextRule
	opts     Options
}

func New(tables *lexicon.Tables, opts Options) *Extractor {
	if opts.Cap <= 0 {
		opts.Cap = DefaultCap
	}
	if opts.MinContextHits <= 0 {
		opts.MinContextHits = DefaultMinContextHits
	}

	e := &Extractor{opts: opts}
	if tables == nil {
		return e
	}

	e.families = tables.Entities
	e.rules = make([]contextRule, 0, len(tables.Contexts))
	for _, rule := range tables.Contexts {
		keywords := make([]string, 0, len(rule.Keywords))
		for _, keyword := range rule.Keywords {
			if normalized := textnorm.Normalize(keyword); normalized != "" {
				keywords = append(keywords, normalized)
			}
		}
		e.rules = append(e.rules, contextRule{tag: rule.Tag, keywords: keywords})
	}
	return e
}

type match struct {
	value  string
	offset int
}

// Extract returns the entities found per type, ordered by first occurrence and
// capped. Types without matches are omitted.
func (e *Extractor) Extract(text string) (entities map[string][]string) {
	entities = map[string][]string{}
	defer func() {
		if recover() != nil {
			entities = map[string][]string{}
		}
	}()

	if e == nil || strings.TrimSpace(text) == "" {
		return entities
	}

	for _, family := range e.families {
		values := e.extractFamily(family, text)
		if len(values) > 0 {
			entities[family.Type] = values
		}
	}
	return entities
}

func (e *Extractor) extractFamily(family lexicon.PatternFamily, text string) []string {
	firstSeen := map[string]int{}
	for _, pattern := range family.Patterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			value := strings.TrimSpace(text[loc[0]:loc[1]])
			if utf8.RuneCountInString(value) < minEntityRunes {
				continue
			}
			if offset, seen := firstSeen[value]; seen && offset <= loc[0] {
				continue
			}
			firstSeen[value] = loc[0]
		}
	}
	if len(firstSeen) == 0 {
		return nil
	}

	matches := make([]match, 0, len(firstSeen))
	for value, offset := range firstSeen {
		matches = append(matches, match{value: value, offset: offset})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].offset != matches[j].offset {
			return matches[i].offset < matches[j].offset
		}
		return matches[i].value < matches[j].value
	})

	limit := min(len(matches), e.opts.Cap)
	values := make([]string, 0, limit)
	for _, m := range matches[:limit] {
		values = append(values, m.value)
	}
	return values
}

// Contexts returns the sorted domain tags whose keyword hits reach the configured minimum.
func (e *Extractor) Contexts(text string) (tags []string) {
	tags = []string{}
	defer func() {
		if recover() != nil {
			tags = []string{}
		}
	}()

	if e == nil {
		return tags
	}
	normalized := textnorm.Normalize(text)
	if normalized == "" {
		return tags
	}

	for _, rule := range e.rules {
		hits := 0
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				hits++
			}
		}
		if hits >= e.opts.MinContextHits {
			tags = append(tags, rule.tag)
		}
	}
	sort.Strings(tags)
	return tags
}

package lexicon

import (
	"reflect"
	"testing"
)

func TestDefaultSentimentLexiconsAreDisjoint(t *testing.T) {
	t.Parallel()

	tables := Default()
	for _, language := range tables.Languages() {
		lexicon, ok := tables.Sentiment(language)
		if !ok {
			t.Fatalf("missing lexicon for %q", language)
		}
		if lexicon.Positive.Len() == 0 || lexicon.Negative.Len() == 0 {
			t.Fatalf("expected non-empty polarity lists for %q", language)
		}
		for word := range lexicon.Positive.words {
			if lexicon.Negative.Contains(word) {
				t.Fatalf("word %q is both positive and negative in %q", word, language)
			}
			if lexicon.Neutral.Contains(word) {
				t.Fatalf("word %q is both positive and neutral in %q", word, language)
			}
		}
	}
}

func TestSentimentLookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	tables := Default()
	if _, ok := tables.Sentiment(" PT "); !ok {
		t.Fatalf("expected portuguese lexicon lookup to succeed")
	}
	if _, ok := tables.Sentiment("zz"); ok {
		t.Fatalf("expected unknown language lookup to fail")
	}
	if got, want := tables.Languages(), []string{"en", "pt"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected languages: got %v want %v", got, want)
	}
}

func TestSynonymsTargetFixedCategories(t *testing.T) {
	t.Parallel()

	tables := Default()
	names := map[string]struct{}{}
	for _, name := range tables.FixedCategoryNames() {
		names[name] = struct{}{}
	}
	if len(names) != 10 {
		t.Fatalf("unexpected fixed category count: got %d want %d", len(names), 10)
	}
	if _, ok := names[CatchAllCategory]; !ok {
		t.Fatalf("catch-all category %q missing from fixed set", CatchAllCategory)
	}
	for _, synonym := range tables.Synonyms {
		if _, ok := names[synonym.Category]; !ok {
			t.Fatalf("synonym %q targets unknown category %q", synonym.Term, synonym.Category)
		}
	}
}

func TestEntityFamiliesCoverAllTypes(t *testing.T) {
	t.Parallel()

	var got []string
	for _, family := range Default().Entities {
		if len(family.Patterns) == 0 {
			t.Fatalf("family %q has no patterns", family.Type)
		}
		got = append(got, family.Type)
	}
	want := []string{
		EntityPerson,
		EntityOrganization,
		EntityLocation,
		EntityDate,
		EntityMonetaryValue,
		EntityPercentage,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entity families: got %v want %v", got, want)
	}
}

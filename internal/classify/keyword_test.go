package classify

import (
	"testing"

	"horse.fit/newsanalysis/internal/lexicon"
)

func TestKeywordClassifierPrimaryOutweighsSecondary(t *testing.T) {
	t.Parallel()

	classifier := NewKeywordClassifier(lexicon.Default(), Options{})
	got := classifier.Classify("futebol basquete chip", nil)

	name, ok := got.Suggested()
	if !ok || name != "Esportes" {
		t.Fatalf("unexpected suggestion: got %q ok=%t want %q", name, ok, "Esportes")
	}
	if got.Scores["Esportes"] <= got.Scores["Tecnologia"] {
		t.Fatalf("expected Esportes to outscore Tecnologia: %v", got.Scores)
	}
	if got.Scores["Tecnologia"] != 33.33 {
		t.Fatalf("unexpected Tecnologia score: got %v want %v", got.Scores["Tecnologia"], 33.33)
	}
	if got.Confidence != 1 {
		t.Fatalf("unexpected confidence: got %v want %v", got.Confidence, 1.0)
	}
	if got.Method != MethodKeyword {
		t.Fatalf("unexpected method: got %q want %q", got.Method, MethodKeyword)
	}
	if got.CategoryExists != nil {
		t.Fatalf("expected no existence check without categories, got %v", *got.CategoryExists)
	}
}

func TestKeywordClassifierNoMatches(t *testing.T) {
	t.Parallel()

	classifier := NewKeywordClassifier(lexicon.Default(), Options{})
	for _, text := range []string{"", "   ", "xyz qwerty"} {
		got := classifier.Classify(text, []Category{{Name: "Esportes"}})
		if got.SuggestedCategory != nil {
			t.Fatalf("expected no suggestion for %q, got %q", text, *got.SuggestedCategory)
		}
		if got.Confidence != 0 {
			t.Fatalf("unexpected confidence for %q: got %v want 0", text, got.Confidence)
		}
		if got.Message != messageNoCategory {
			t.Fatalf("unexpected message for %q: %q", text, got.Message)
		}
	}
}

func TestKeywordClassifierExistenceIsAdvisory(t *testing.T) {
	t.Parallel()

	classifier := NewKeywordClassifier(lexicon.Default(), Options{})

	found := classifier.Classify("futebol basquete chip", []Category{{ID: 3, Name: "esportes"}})
	if found.CategoryExists == nil || !*found.CategoryExists {
		t.Fatalf("expected existing category match, got %+v", found.CategoryExists)
	}

	missing := classifier.Classify("futebol basquete chip", []Category{{ID: 9, Name: "Outros"}})
	if missing.CategoryExists == nil || *missing.CategoryExists {
		t.Fatalf("expected category_exists=false, got %+v", missing.CategoryExists)
	}
	if name, _ := missing.Suggested(); name != "Esportes" {
		t.Fatalf("unexpected suggestion: got %q want %q", name, "Esportes")
	}
}

func TestKeywordClassifierDynamicCategories(t *testing.T) {
	t.Parallel()

	existing := []Category{{ID: 11, Name: "Agronegócio"}}

	static := NewKeywordClassifier(lexicon.Default(), Options{})
	if got := static.Classify("agronegócio cresce", existing); got.SuggestedCategory != nil {
		t.Fatalf("expected no suggestion without dynamic categories, got %q", *got.SuggestedCategory)
	}

	dynamic := NewKeywordClassifier(lexicon.Default(), Options{DynamicCategories: true})
	got := dynamic.Classify("agronegócio cresce", existing)
	if name, ok := got.Suggested(); !ok || name != "Agronegócio" {
		t.Fatalf("unexpected dynamic suggestion: got %q ok=%t", name, ok)
	}
	if got.Scores["Agronegócio"] != 100 {
		t.Fatalf("unexpected dynamic score: got %v want %v", got.Scores["Agronegócio"], 100.0)
	}
	if got.CategoryExists == nil || !*got.CategoryExists {
		t.Fatalf("expected dynamic category to exist")
	}
}

func TestKeywordClassifierIsReproducible(t *testing.T) {
	t.Parallel()

	classifier := NewKeywordClassifier(lexicon.Default(), Options{Policy: Policy{ConfidenceDivisor: 50}})
	text := "O Banco Central elevou a taxa de juros e o mercado reagiu"
	first := classifier.Classify(text, nil)
	for i := 0; i < 5; i++ {
		got := classifier.Classify(text, nil)
		if got.Confidence != first.Confidence || *got.SuggestedCategory != *first.SuggestedCategory {
			t.Fatalf("non-reproducible classification: got %+v want %+v", got, first)
		}
	}
	if *first.SuggestedCategory != "Economia" {
		t.Fatalf("unexpected suggestion: got %q want %q", *first.SuggestedCategory, "Economia")
	}
}

func TestFindCategory(t *testing.T) {
	t.Parallel()

	categories := []Category{{ID: 1, Name: "Saúde"}, {ID: 2, Name: "Economia"}}
	found, ok := FindCategory(categories, " economia ")
	if !ok || found.ID != 2 {
		t.Fatalf("unexpected lookup: got %+v ok=%t", found, ok)
	}
	if _, ok := FindCategory(categories, "Esportes"); ok {
		t.Fatalf("expected missing category lookup to fail")
	}
	if _, ok := FindCategory(nil, ""); ok {
		t.Fatalf("expected empty lookup to fail")
	}
}

package entities

import (
	"reflect"
	"testing"

	"horse.fit/newsanalysis/internal/lexicon"
)

func contains(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}

func TestExtractRecognizesEntityFamilies(t *testing.T) {
	t.Parallel()

	extractor := New(lexicon.Default(), DefaultOptions())
	text := "Segundo a Petrobras S.A., o lucro de R$ 1.500,00 subiu 12,5% em 15/03/2024, informou o STF e o Ministério da Saúde."

	got := extractor.Extract(text)

	checks := []struct {
		entityType string
		want       string
	}{
		{lexicon.EntityOrganization, "Petrobras S.A."},
		{lexicon.EntityOrganization, "STF"},
		{lexicon.EntityOrganization, "Ministério da Saúde"},
		{lexicon.EntityMonetaryValue, "R$ 1.500,00"},
		{lexicon.EntityPercentage, "12,5%"},
		{lexicon.EntityDate, "15/03/2024"},
	}
	for _, check := range checks {
		if !contains(got[check.entityType], check.want) {
			t.Fatalf("expected %s to contain %q, got %v", check.entityType, check.want, got[check.entityType])
		}
	}
}

func TestExtractPersonWithHonorific(t *testing.T) {
	t.Parallel()

	got := New(lexicon.Default(), DefaultOptions()).Extract("a Dra. Maria Souza falou")
	want := []string{"Dra. Maria Souza", "Maria Souza"}
	if !reflect.DeepEqual(got[lexicon.EntityPerson], want) {
		t.Fatalf("unexpected persons: got %v want %v", got[lexicon.EntityPerson], want)
	}
}

func TestExtractCapsDeterministically(t *testing.T) {
	t.Parallel()

	extractor := New(lexicon.Default(), Options{Cap: 5})
	text := "Cidades visitadas: São Paulo, Campinas, Santos, Sorocaba, Jundiaí, Ribeirão Preto, Franca, Bauru, Marília, Limeira, Piracicaba, Americana."

	first := extractor.Extract(text)[lexicon.EntityLocation]
	want := []string{"Cidades", "São Paulo", "Campinas", "Santos", "Sorocaba"}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("unexpected capped locations: got %v want %v", first, want)
	}
	for i := 0; i < 10; i++ {
		if got := extractor.Extract(text)[lexicon.EntityLocation]; !reflect.DeepEqual(got, first) {
			t.Fatalf("non-deterministic locations: got %v want %v", got, first)
		}
	}
}

func TestExtractDropsShortMatches(t *testing.T) {
	t.Parallel()

	got := New(lexicon.Default(), DefaultOptions()).Extract("o PT e o PL votaram 5%")
	if len(got) != 0 {
		t.Fatalf("expected no entities, got %v", got)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	t.Parallel()

	extractor := New(lexicon.Default(), DefaultOptions())
	if got := extractor.Extract(""); len(got) != 0 {
		t.Fatalf("expected empty mapping, got %v", got)
	}
	if got := extractor.Contexts(""); len(got) != 0 {
		t.Fatalf("expected empty contexts, got %v", got)
	}

	var nilExtractor *Extractor
	if got := nilExtractor.Extract("Rio de Janeiro"); len(got) != 0 {
		t.Fatalf("expected empty mapping from nil extractor, got %v", got)
	}
}

func TestContextsThreshold(t *testing.T) {
	t.Parallel()

	text := "O ministro visitou o hospital"

	lenient := New(lexicon.Default(), Options{MinContextHits: 1})
	if got, want := lenient.Contexts(text), []string{lexicon.ContextHealth, lexicon.ContextPolitics}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected lenient contexts: got %v want %v", got, want)
	}

	strict := New(lexicon.Default(), Options{MinContextHits: 2})
	if got := strict.Contexts(text); len(got) != 0 {
		t.Fatalf("expected no strict contexts, got %v", got)
	}

	economy := "O mercado reagiu à inflação e aos juros"
	if got, want := strict.Contexts(economy), []string{lexicon.ContextEconomy}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected strict contexts: got %v want %v", got, want)
	}
}

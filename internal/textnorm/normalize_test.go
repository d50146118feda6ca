package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "blank", input: " \t\n ", want: ""},
		{name: "punctuation", input: "Olá, Mundo! Tudo bem?", want: "olá mundo tudo bem"},
		{name: "collapses whitespace", input: "  a \t\t b\n\nc  ", want: "a b c"},
		{name: "keeps underscore and digits", input: "snake_case 2025-10", want: "snake_case 2025 10"},
		{name: "keeps accents", input: "EDUCAÇÃO É PRIORIDADE.", want: "educação é prioridade"},
		{name: "composes decomposed accents", input: "educac\u0327a\u0303o", want: "educação"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tc.input); got != tc.want {
				t.Fatalf("unexpected normalized text: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestWords(t *testing.T) {
	t.Parallel()

	got := Words("Mercado, em ALTA!")
	want := []string{"mercado", "em", "alta"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected words: got %v want %v", got, want)
	}
	if words := Words("?!"); len(words) != 0 {
		t.Fatalf("expected no words for punctuation-only input, got %v", words)
	}
}

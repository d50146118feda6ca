package lexicon

import "regexp"

const (
	EntityPerson        = "person"
	EntityOrganization  = "organization"
	EntityLocation      = "location"
	EntityDate          = "date"
	EntityMonetaryValue = "monetary_value"
	EntityPercentage    = "percentage"
)

// Capitalization-driven families (names, acronyms, generic place names) stay
// case-sensitive; folding case there would turn them into "any word" matchers.
func entityPatterns() []PatternFamily {
	return []PatternFamily{
		{
			Type: EntityPerson,
			Patterns: compileAll(
				`\p{Lu}\p{Ll}+(?: \p{Lu}\p{Ll}+)+`,
				`(?:Sr|Sra|Dr|Dra|Mr|Mrs|Ms)\. \p{Lu}\p{Ll}+(?: \p{Lu}\p{Ll}+)*`,
			),
		},
		{
			Type: EntityOrganization,
			Patterns: compileAll(
				`\p{Lu}\p{L}*(?: \p{Lu}\p{L}*)* (?:S\.A\.|S/A|Ltda\.|Inc\.|Corp\.|Ltd\.)`,
				`(?i:ministério|secretaria|prefeitura|governo|empresa|companhia|ministry|department)(?: (?i:d[aeo]s?|of))? \p{Lu}\p{Ll}+(?: \p{Lu}\p{Ll}+)*`,
				`\b[A-Z]{2,}\b`,
			),
		},
		{
			Type: EntityLocation,
			Patterns: compileAll(
				`(?i)\b(?:São Paulo|Rio de Janeiro|Brasília|Salvador|Fortaleza|Belo Horizonte|Manaus|Curitiba|Recife|Porto Alegre)`,
				`\p{Lu}\p{Ll}+(?: \p{Lu}\p{Ll}+)*(?: - [A-Z]{2}\b)?`,
			),
		},
		{
			Type: EntityDate,
			Patterns: compileAll(
				`\b\d{1,2}/\d{1,2}/\d{4}\b`,
				`(?i)\b\d{1,2} de (?:janeiro|fevereiro|março|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro) de \d{4}\b`,
				`\b\d{4}-\d{2}-\d{2}\b`,
			),
		},
		{
			Type: EntityMonetaryValue,
			Patterns: compileAll(
				`(?:R|US)?\$ ?\d+(?:[.,]\d{3})*(?:[.,]\d{2})?\b`,
				`(?i)\b\d+(?:[.,]\d+)* ?(?:reais|milhões|milhão|bilhões|bilhão|dollars|million|billion)`,
			),
		},
		{
			Type: EntityPercentage,
			Patterns: compileAll(
				`\b\d+(?:[.,]\d+)?%`,
			),
		},
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(pattern))
	}
	return compiled
}

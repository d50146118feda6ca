package lexicon

const (
	ContextEconomy    = "economy"
	ContextPolitics   = "politics"
	ContextTechnology = "technology"
	ContextHealth     = "health"
	ContextSports     = "sports"
	ContextEducation  = "education"
)

func contextRules() []ContextRule {
	return []ContextRule{
		{Tag: ContextEconomy, Keywords: []string{
			"economia", "mercado", "bolsa", "investimento", "pib", "inflação", "juros",
			"economy", "market", "stock", "investment", "gdp", "inflation", "interest rate",
		}},
		{Tag: ContextPolitics, Keywords: []string{
			"governo", "presidente", "ministro", "deputado", "senador", "eleição", "votação",
			"government", "president", "minister", "congress", "senator", "election", "vote",
		}},
		{Tag: ContextTechnology, Keywords: []string{
			"tecnologia", "internet", "software", "aplicativo", "digital", "inovação",
			"technology", "app", "innovation",
		}},
		{Tag: ContextHealth, Keywords: []string{
			"saúde", "hospital", "médico", "doença", "tratamento", "vacina", "medicina",
			"health", "doctor", "disease", "treatment", "vaccine", "medicine",
		}},
		{Tag: ContextSports, Keywords: []string{
			"futebol", "basquete", "vôlei", "olimpíadas", "copa", "campeonato", "atleta",
			"football", "soccer", "basketball", "olympics", "championship", "athlete",
		}},
		{Tag: ContextEducation, Keywords: []string{
			"educação", "escola", "universidade", "professor", "aluno", "ensino", "curso",
			"education", "school", "university", "teacher", "student",
		}},
	}
}

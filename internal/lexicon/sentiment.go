package lexicon

func portugueseSentiment() Sentiment {
	return Sentiment{
		Language: LanguagePortuguese,
		Positive: NewWordSet(
			"excelente", "ótimo", "bom", "positivo", "sucesso", "vitória", "conquista",
			"melhoria", "progresso", "avanço", "crescimento", "desenvolvimento", "inovação",
			"benefício", "vantagem", "oportunidade", "esperança", "otimismo", "alegria",
			"felicidade", "satisfação", "aprovação", "elogio", "reconhecimento", "prêmio",
			"ganho", "lucro", "aumento", "alta", "subida", "recuperação", "melhora",
			"solução", "resolução", "acordo", "paz", "harmonia", "união", "cooperação",
		),
		Negative: NewWordSet(
			"ruim", "péssimo", "terrível", "negativo", "fracasso", "derrota", "perda",
			"declínio", "queda", "redução", "diminuição", "crise", "problema", "dificuldade",
			"obstáculo", "barreira", "conflito", "guerra", "violência", "crime", "roubo",
			"corrupção", "escândalo", "polêmica", "controvérsia", "crítica", "condenação",
			"prejuízo", "dano", "destruição", "catástrofe", "desastre", "tragédia", "morte",
			"doença", "epidemia", "pandemia", "recessão", "desemprego", "inflação",
		),
		Neutral: NewWordSet(
			"informação", "dados", "estatística", "relatório", "estudo", "pesquisa",
			"análise", "investigação", "levantamento", "censo", "enquete", "entrevista",
			"declaração", "comunicado", "anúncio", "divulgação", "publicação", "lançamento",
		),
	}
}

func englishSentiment() Sentiment {
	return Sentiment{
		Language: LanguageEnglish,
		Positive: NewWordSet(
			"excellent", "great", "good", "positive", "success", "victory", "achievement",
			"improvement", "progress", "advance", "growth", "development", "innovation",
			"benefit", "advantage", "opportunity", "hope", "optimism", "joy", "happiness",
			"satisfaction", "approval", "praise", "recognition", "award", "gain", "profit",
			"increase", "rise", "recovery", "solution", "resolution", "agreement", "peace",
			"harmony", "unity", "cooperation", "breakthrough", "record",
		),
		Negative: NewWordSet(
			"bad", "awful", "terrible", "negative", "failure", "defeat", "loss", "decline",
			"fall", "drop", "reduction", "decrease", "crisis", "problem", "difficulty",
			"obstacle", "barrier", "conflict", "war", "violence", "crime", "theft",
			"corruption", "scandal", "controversy", "criticism", "condemnation", "damage",
			"destruction", "catastrophe", "disaster", "tragedy", "death", "disease",
			"epidemic", "pandemic", "recession", "unemployment", "inflation",
		),
		Neutral: NewWordSet(
			"information", "data", "statistics", "report", "study", "research", "analysis",
			"investigation", "survey", "census", "poll", "interview", "statement",
			"announcement", "disclosure", "publication", "release",
		),
	}
}

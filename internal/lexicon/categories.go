package lexicon

// CatchAllCategory is the closed-set answer when nothing matches.
const CatchAllCategory = "Internacional"

func categoryKeywords() []CategoryKeywords {
	return []CategoryKeywords{
		{
			Name: "Tecnologia",
			Primary: []string{
				"tecnologia", "software", "hardware", "internet", "digital", "computador",
				"smartphone", "aplicativo", "app", "inteligência artificial", "ia",
				"machine learning", "blockchain", "criptomoeda", "bitcoin", "startup",
				"inovação", "tech", "programação", "desenvolvimento", "código", "sistema",
				"plataforma", "google", "apple", "microsoft", "facebook", "meta", "amazon",
				"netflix",
			},
			Secondary: []string{
				"dados", "nuvem", "cloud", "segurança", "cyber", "robô", "automação",
				"virtual", "realidade", "gaming", "game", "eletrônico", "chip",
			},
		},
		{
			Name: "Economia",
			Primary: []string{
				"economia", "mercado", "bolsa", "ações", "investimento", "financeiro", "banco",
				"dinheiro", "real", "dólar", "moeda", "inflação", "pib", "juros", "taxa",
				"selic", "ipca", "empresas", "negócios", "lucro", "prejuízo", "receita",
				"faturamento", "vendas",
			},
			Secondary: []string{
				"comércio", "varejo", "indústria", "setor", "crescimento", "recessão", "crise",
				"recuperação", "exportação", "importação", "balança",
			},
		},
		{
			Name: "Política",
			Primary: []string{
				"política", "governo", "presidente", "ministro", "deputado", "senador",
				"congresso", "senado", "câmara", "eleição", "voto", "partido", "democracia",
				"lei", "projeto", "reforma", "constituição", "brasília", "planalto",
				"palácio", "supremo", "stf",
			},
			Secondary: []string{
				"municipal", "estadual", "federal", "prefeito", "governador", "campanha",
				"candidato", "coligação", "aliança",
			},
		},
		{
			Name: "Esportes",
			Primary: []string{
				"futebol", "basquete", "vôlei", "tênis", "natação", "atletismo", "olimpíadas",
				"copa", "mundial", "campeonato", "jogo", "partida", "time", "clube", "jogador",
				"atleta", "técnico", "treinador", "gol", "vitória", "derrota", "empate",
				"resultado",
			},
			Secondary: []string{
				"estádio", "arena", "ginásio", "campo", "quadra", "piscina", "medalha",
				"troféu", "prêmio", "recorde", "performance",
			},
		},
		{
			Name: "Saúde",
			Primary: []string{
				"saúde", "medicina", "médico", "hospital", "clínica", "paciente", "doença",
				"tratamento", "cura", "remédio", "medicamento", "vacina", "vacinação",
				"epidemia", "pandemia", "vírus", "covid", "coronavirus", "sus",
				"ministério da saúde",
			},
			Secondary: []string{
				"sintoma", "diagnóstico", "exame", "cirurgia", "terapia", "prevenção",
				"cuidado", "bem-estar", "qualidade de vida",
			},
		},
		{
			Name: "Educação",
			Primary: []string{
				"educação", "escola", "universidade", "faculdade", "ensino", "professor",
				"aluno", "estudante", "curso", "aula", "mec", "ministério da educação", "enem",
				"vestibular", "graduação", "pós-graduação", "mestrado", "doutorado",
			},
			Secondary: []string{
				"aprendizagem", "conhecimento", "pesquisa", "ciência", "bolsa",
				"financiamento", "fies", "prouni", "sisu",
			},
		},
		{
			Name: "Entretenimento",
			Primary: []string{
				"entretenimento", "cinema", "filme", "série", "tv", "televisão", "música",
				"cantor", "banda", "show", "concerto", "festival", "teatro", "peça", "ator",
				"atriz", "artista", "celebridade", "famoso", "netflix", "globo", "sbt",
				"record",
			},
			Secondary: []string{
				"cultura", "arte", "livro", "autor", "escritor", "literatura", "exposição",
				"museu", "galeria", "evento", "lançamento",
			},
		},
		{
			Name: "Ciência",
			Primary: []string{
				"ciência", "pesquisa", "estudo", "descoberta", "experimento", "cientista",
				"pesquisador", "laboratório", "universidade", "cnpq", "fapesp", "capes",
				"nasa", "espaço", "astronomia", "física", "química", "biologia", "matemática",
			},
			Secondary: []string{
				"inovação", "tecnologia", "desenvolvimento", "teoria", "método", "análise",
				"resultado", "conclusão", "hipótese",
			},
		},
	}
}

func fixedCategories() []FixedCategory {
	return []FixedCategory{
		{Name: "Política", Keywords: []string{
			"política", "governo", "eleição", "presidente", "ministro", "congresso", "senado", "deputado",
		}},
		{Name: "Economia", Keywords: []string{
			"economia", "mercado", "bolsa", "investimento", "banco", "dinheiro", "inflação", "pib", "juros",
		}},
		{Name: "Tecnologia", Keywords: []string{
			"tecnologia", "software", "app", "digital", "internet", "inteligência artificial", "startup", "inovação",
		}},
		{Name: "Esportes", Keywords: []string{
			"futebol", "esporte", "jogador", "time", "campeonato", "copa", "olimpíadas", "atleta",
		}},
		{Name: "Saúde", Keywords: []string{
			"saúde", "medicina", "hospital", "médico", "doença", "tratamento", "vacina", "covid",
		}},
		{Name: "Educação", Keywords: []string{
			"educação", "escola", "universidade", "ensino", "professor", "aluno", "enem", "vestibular",
		}},
		{Name: "Meio Ambiente", Keywords: []string{
			"meio ambiente", "sustentabilidade", "clima", "aquecimento global", "poluição", "natureza",
		}},
		{Name: "Cultura", Keywords: []string{
			"cultura", "arte", "música", "cinema", "teatro", "festival", "artista", "entretenimento",
		}},
		{Name: "Segurança", Keywords: []string{
			"segurança", "crime", "violência", "polícia", "prisão", "roubo", "homicídio",
		}},
		{Name: CatchAllCategory, Keywords: []string{
			"internacional", "mundo", "país", "exterior", "global", "guerra", "diplomacia",
		}},
	}
}

func categorySynonyms() []Synonym {
	return []Synonym{
		{Term: "tech", Category: "Tecnologia"},
		{Term: "politica", Category: "Política"},
		{Term: "politic", Category: "Política"},
		{Term: "sport", Category: "Esportes"},
		{Term: "esporte", Category: "Esportes"},
		{Term: "health", Category: "Saúde"},
		{Term: "saude", Category: "Saúde"},
		{Term: "environment", Category: "Meio Ambiente"},
		{Term: "ambiente", Category: "Meio Ambiente"},
		{Term: "education", Category: "Educação"},
		{Term: "educacao", Category: "Educação"},
		{Term: "security", Category: "Segurança"},
		{Term: "seguranca", Category: "Segurança"},
		{Term: "culture", Category: "Cultura"},
		{Term: "economy", Category: "Economia"},
		{Term: "international", Category: "Internacional"},
		{Term: "world", Category: "Internacional"},
	}
}

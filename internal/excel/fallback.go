package excel

import "github.com/example/fransbot/pkg/models"

// FallbackItems returns the built-in practice set used when no source file is available.
func FallbackItems() []models.Item {
	return []models.Item{
		{Sentence: "Je ___ la réponse.", Answer: "sais", Tense: "présent", Lemma: "savoir"},
		{Sentence: "Nous ___ nager.", Answer: "savons", Tense: "présent", Lemma: "savoir"},
		{Sentence: "Tu ___ tout depuis le début.", Answer: "savais", Tense: "imparfait", Lemma: "savoir"},
		{Sentence: "Ils ___ la vérité demain.", Answer: "sauront", Tense: "futur simple", Lemma: "savoir"},
		{Sentence: "Elle ___ la nouvelle hier.", Answer: "a su", Tense: "passé composé", Lemma: "savoir"},

		{Sentence: "Il ___ fatigué.", Answer: "était", Tense: "imparfait", Lemma: "être"},
		{Sentence: "Je ___ content.", Answer: "suis", Tense: "présent", Lemma: "être"},
		{Sentence: "Vous ___ en retard.", Answer: "êtes", Tense: "présent", Lemma: "être"},
		{Sentence: "Nous ___ à Paris l'an prochain.", Answer: "serons", Tense: "futur simple", Lemma: "être"},
		{Sentence: "Tu ___ malade la semaine dernière.", Answer: "as été", Tense: "passé composé", Lemma: "être"},

		{Sentence: "J'___ faim.", Answer: "ai", Tense: "présent", Lemma: "avoir"},
		{Sentence: "Ils ___ une grande maison.", Answer: "ont", Tense: "présent", Lemma: "avoir"},
		{Sentence: "Nous ___ peur du noir.", Answer: "avions", Tense: "imparfait", Lemma: "avoir"},
		{Sentence: "Tu ___ le temps demain.", Answer: "auras", Tense: "futur simple", Lemma: "avoir"},

		{Sentence: "Je ___ au marché.", Answer: "vais", Tense: "présent", Lemma: "aller"},
		{Sentence: "Vous ___ à la plage chaque été.", Answer: "alliez", Tense: "imparfait", Lemma: "aller"},
		{Sentence: "Elle ___ au cinéma samedi.", Answer: "ira", Tense: "futur simple", Lemma: "aller"},
		{Sentence: "Nous ___ à Lyon hier.", Answer: "sommes allés", Tense: "passé composé", Lemma: "aller"},

		{Sentence: "Qu'est-ce que tu ___ ?", Answer: "fais", Tense: "présent", Lemma: "faire"},
		{Sentence: "Ils ___ leurs devoirs le soir.", Answer: "faisaient", Tense: "imparfait", Lemma: "faire"},
		{Sentence: "J'___ un gâteau hier.", Answer: "ai fait", Tense: "passé composé", Lemma: "faire"},
		{Sentence: "Nous ___ attention.", Answer: "ferons", Tense: "futur simple", Lemma: "faire"},
	}
}

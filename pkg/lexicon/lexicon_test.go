package lexicon

import "testing"

func TestDefaultLexiconMatchers(t *testing.T) {
	lex := Default()

	tests := []struct {
		name  string
		match func(string) bool
		query string
		want  bool
	}{
		{"interrogative what", lex.IsInterrogative, "what is the levy", true},
		{"interrogative absent", lex.IsInterrogative, "levy payment", false},
		{"document form", lex.MentionsDocument, "where is the claim form", true},
		{"document absent", lex.MentionsDocument, "how much is the premium", false},
		{"entity levy", lex.HasEntities, "how much is the levy?", true},
		{"entity hk$", lex.HasEntities, "pay HK$500 now", true},
		{"entity credit card", lex.HasEntities, "can I use a credit card", true},
		{"entity product en", lex.HasEntities, "tell me about PRUChoice Travel", true},
		{"entity product tc", lex.HasEntities, "旅遊樂的保障範圍", true},
		{"entity absent", lex.HasEntities, "general question", false},
		{"multihop compare", lex.RequiresMultiHop, "compare plan A and plan B", true},
		{"multihop versus", lex.RequiresMultiHop, "plan A versus plan B", true},
		{"multihop absent", lex.RequiresMultiHop, "what is plan A", false},
		{"overview", lex.IsOverview, "give me a quick summary", true},
		{"cjk", lex.HasCJK, "保費是多少", true},
		{"cjk absent", lex.HasCJK, "premium amount", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.match(tt.query); got != tt.want {
				t.Errorf("%s: got %v, want %v for %q", tt.name, got, tt.want, tt.query)
			}
		})
	}
}

func TestBoostTerms(t *testing.T) {
	lex := Default()
	if !lex.IsBoostTerm("levy") {
		t.Error("levy should be a boost term")
	}
	if lex.IsBoostTerm("giraffe") {
		t.Error("giraffe should not be a boost term")
	}
	if len(lex.BoostTerms()) == 0 {
		t.Error("boost terms empty")
	}
}

func TestExtractEntity(t *testing.T) {
	lex := Default()
	if got := lex.ExtractEntity("how much is the levy for renewals?"); got == "" {
		t.Error("expected entity from levy query")
	}
	if got := lex.ExtractEntity("nothing to see here"); got != "" {
		t.Errorf("expected no entity, got %q", got)
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	if _, err := parse([]byte("interrogatives: []\n")); err == nil {
		t.Error("expected error for lexicon missing word lists")
	}
}

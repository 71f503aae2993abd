package types

import "testing"

func TestRecordStrategyKeepsOrderAndUniqueness(t *testing.T) {
	s := NewSession("how much is the levy?", "test", UserContext{})

	s.RecordStrategy(StrategyQAPairs, "direct question")
	s.RecordStrategy(StrategyHybrid, "fallback")
	s.RecordStrategy(StrategyQAPairs, "re-selected")

	if len(s.StrategiesTried) != 2 {
		t.Fatalf("StrategiesTried = %v, want 2 unique entries", s.StrategiesTried)
	}
	if s.StrategiesTried[0] != StrategyQAPairs || s.StrategiesTried[1] != StrategyHybrid {
		t.Errorf("attempt order not preserved: %v", s.StrategiesTried)
	}
	if s.CurrentStrategy != StrategyQAPairs {
		t.Errorf("CurrentStrategy = %v, want qa_pairs", s.CurrentStrategy)
	}
	if s.StrategyReasons[StrategyQAPairs] != "re-selected" {
		t.Errorf("reason not updated: %q", s.StrategyReasons[StrategyQAPairs])
	}
}

func TestExhaustedByStrategies(t *testing.T) {
	s := NewSession("q", "test", UserContext{})
	for _, strat := range StrategyOrder {
		if s.Exhausted() {
			t.Fatalf("exhausted before all strategies tried: %v", s.StrategiesTried)
		}
		s.RecordStrategy(strat, "r")
	}
	if !s.Exhausted() {
		t.Error("not exhausted after all strategies tried")
	}
}

func TestExhaustedByAttempts(t *testing.T) {
	s := NewSession("q", "test", UserContext{})
	s.AttemptCount = MaxAttempts
	if !s.Exhausted() {
		t.Error("not exhausted at attempt cap")
	}
}

func TestTopDocumentEmpty(t *testing.T) {
	s := NewSession("q", "test", UserContext{})
	if got := s.TopDocument(); got.FileName != "" {
		t.Errorf("TopDocument on empty retrieval = %+v", got)
	}
}

func TestCitationTextPrefersSummary(t *testing.T) {
	c := DocumentChunk{ChunkContent: "full content", ChunkFunctionSummary: "summary"}
	if got := c.CitationText(); got != "summary" {
		t.Errorf("CitationText = %q, want summary", got)
	}
}

func TestTruncateRuneSafe(t *testing.T) {
	s := "保費徵費是多少"
	got := Truncate(s, 4)
	for i := 0; i < len(got); {
		if got[i]&0xC0 == 0x80 {
			t.Fatalf("truncated mid-rune: %q", got)
		}
		i++
		for i < len(got) && got[i]&0xC0 == 0x80 {
			i++
		}
	}
	if len(got) > 4 {
		t.Errorf("Truncate returned %d bytes, want <= 4", len(got))
	}
}

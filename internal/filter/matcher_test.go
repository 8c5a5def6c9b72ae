package filter

import "testing"

func TestMatch(t *testing.T) {
	terms := []string{"spam", "Free Money"}

	tests := []struct {
		name    string
		input   string
		matched bool
		term    string
	}{
		{"exact match", "spam", true, "spam"},
		{"in sentence", "this is spam here", true, "spam"},
		{"uppercase input", "This is SPAM!!", true, "spam"},
		{"substring of larger token", "spammer", true, "spam"},
		{"multi-word term", "get FREE  money now", true, "Free Money"},
		{"term reported verbatim", "free money!!", true, "Free Money"},
		{"clean message", "hello world", false, ""},
		{"empty message", "", false, ""},
		{"symbols only", "!!??", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, ok := Match(tt.input, terms)
			if ok != tt.matched {
				t.Fatalf("Match(%q).ok = %v, want %v", tt.input, ok, tt.matched)
			}
			if tt.matched && term != tt.term {
				t.Errorf("Match(%q) = %q, want %q", tt.input, term, tt.term)
			}
		})
	}
}

func TestMatch_StrippedPunctuationJoins(t *testing.T) {
	// Stripping symbols without inserting spaces means split-up terms
	// collapse back together.
	term, ok := Match("s.p.a.m", []string{"spam"})
	if !ok || term != "spam" {
		t.Fatalf("Match(\"s.p.a.m\") = %q, %v; want \"spam\", true", term, ok)
	}
}

func TestMatch_EmptyTermNeverMatches(t *testing.T) {
	if _, ok := Match("anything at all", []string{"", "!!!", "  "}); ok {
		t.Fatal("terms that normalize to empty must not match")
	}
}

func TestMatch_ArabicTerm(t *testing.T) {
	term, ok := Match("هذه كلمة محظورة فعلاً", []string{"محظورة"})
	if !ok || term != "محظورة" {
		t.Fatalf("arabic term not matched: %q, %v", term, ok)
	}
}

func TestMatch_FirstMatchReported(t *testing.T) {
	term, ok := Match("spam and scam", []string{"spam", "scam"})
	if !ok {
		t.Fatal("expected a match")
	}
	if term != "spam" {
		t.Errorf("expected first term in slice order, got %q", term)
	}
}

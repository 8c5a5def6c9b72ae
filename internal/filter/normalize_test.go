package filter

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "hello world", "hello world"},
		{"uppercase", "HELLO", "hello"},
		{"mixed case", "HeLLo WoRLd", "hello world"},
		{"punctuation stripped", "This is SPAM!!", "this is spam"},
		{"symbols stripped", "s~p#a$m", "spam"},
		{"whitespace collapsed", "too   many    spaces", "too many spaces"},
		{"leading trailing trimmed", "  padded  ", "padded"},
		{"tabs and newlines", "a\tb\nc", "a b c"},
		{"digits kept", "promo2024", "promo2024"},
		{"arabic kept", "كلمة محظورة", "كلمة محظورة"},
		{"arabic with punctuation", "ممنوع!!؟", "ممنوع؟"},
		{"emoji stripped", "buy 💰 now", "buy now"},
		{"underscore stripped", "bad_word", "badword"},
		{"empty", "", ""},
		{"only symbols", "!!!***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"This is SPAM!!",
		"  padded   text  ",
		"كلمة محظورة!!",
		"MiXeD CaSe 123",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalize_CaseInsensitive(t *testing.T) {
	if Normalize("Word") != Normalize("word") || Normalize("word") != Normalize("WORD") {
		t.Errorf("Normalize is case sensitive: %q, %q, %q",
			Normalize("Word"), Normalize("word"), Normalize("WORD"))
	}
}

package lingoseo

import "testing"

func TestSanitizeForSEO(t *testing.T) {
	got := SanitizeForSEO("  Product\n\n owner \t and  AI ")
	if got != "Product owner and AI" {
		t.Errorf("SanitizeForSEO = %q", got)
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short text untouched", "hello world", 20, "hello world"},
		{"cut with ellipsis", "abcdefghij", 8, "abcde..."},
		{"exact length", "abcdefgh", 8, "abcdefgh"},
		{"runes not bytes", "çàéüöñßø", 5, "çà..."},
		{"tiny limit", "abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateText(tt.in, tt.max); got != tt.want {
				t.Errorf("TruncateText(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}

	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}
	if got := TruncateText(string(long), 0); len(got) != DefaultDescriptionLength {
		t.Errorf("default limit produced %d chars", len(got))
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gestão de Produto", "gestao-de-produto"},
		{"  Zürich -- Biel/Bienne ", "zurich-biel-bienne"},
		{"Professional Scrum Product Owner II (PSPO II)", "professional-scrum-product-owner-ii-pspo-ii"},
		{"---", ""},
		{"Café 2024", "cafe-2024"},
		{"snake_case__key", "snake-case-key"},
		{"Ação & Reação", "acao-reacao"},
		{"日本語", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slug(tt.in); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

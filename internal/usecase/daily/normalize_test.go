package daily

import "testing"

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!!", "helloworld"},
		{"  Stay   hungry — stay foolish.  ", "stayhungrystayfoolish"},
		{"«Цитата» — Автор", ""},
		{"A1-B2_C3", "a1b2c3"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := NormalizeText(tc.in); got != tc.want {
			t.Fatalf("NormalizeText(%q) = %q, ожидали %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{"Hello, World!", "already normal", "The Quote — The Author", "No.1 Movie!"}
	for _, in := range inputs {
		once := NormalizeText(in)
		if twice := NormalizeText(once); twice != once {
			t.Fatalf("нормализация не идемпотентна для %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeTextSpacingInsensitive(t *testing.T) {
	// Ключи, различающиеся только пробелами и пунктуацией, совпадают.
	if NormalizeText("Hello, World!") != NormalizeText("helloworld") {
		t.Fatalf("пробелы и пунктуация не должны различать ключи")
	}
	if NormalizeText("Be Yourself; Everyone Else Is Taken.") != NormalizeText("be yourself, everyone else is taken") {
		t.Fatalf("варианты регистра и пунктуации должны давать один ключ")
	}
}

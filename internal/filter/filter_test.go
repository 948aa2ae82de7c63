package filter

import "testing"

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		raw    string
		source string
		want   string
	}{
		{"fullwidth bracket", "【速報】AI新機能発表", "", "AI新機能発表"},
		{"ascii bracket", "[PR]AI新ツール登場", "", "AI新ツール登場"},
		{"nested brackets", "[a[b]c]タイトル", "", "タイトル"},
		{"source prefix", "医療ニュース:新しい治療法", "医療ニュース", "新しい治療法"},
		{"fullwidth colon prefix", "医療ニュース：新しい治療法", "医療ニュース", "新しい治療法"},
		{"untouched", "理学療法の最前線", "別ソース", "理学療法の最前線"},
		{"whitespace", "  余白のある題  ", "", "余白のある題"},
		{"empty", "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeTitle(tc.raw, tc.source)
			if got != tc.want {
				t.Fatalf("NormalizeTitle(%q, %q) = %q, want %q", tc.raw, tc.source, got, tc.want)
			}
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"【速報】AI新機能発表", "[PR] リハビリ支援ロボット", "普通の見出し"}
	for _, raw := range inputs {
		once := NormalizeTitle(raw, "")
		twice := NormalizeTitle(once, "")
		if once != twice {
			t.Fatalf("normalization not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestClassifierAdmit(t *testing.T) {
	t.Parallel()

	c := NewClassifier([]string{"AI", "教育"}, []string{"募集"})

	if c.Admit("AI教育セミナー募集") {
		t.Fatal("exclude keyword must veto an included title")
	}
	if !c.Admit("AI教育の未来") {
		t.Fatal("included title without exclude keyword must be admitted")
	}
	if c.Admit("野球大会開催のお知らせ") {
		t.Fatal("title without include keyword must be rejected")
	}
}

func TestClassifierCaseInsensitiveASCII(t *testing.T) {
	t.Parallel()

	c := NewClassifier([]string{"ai"}, nil)
	if !c.Admit("AIによる姿勢推定") {
		t.Fatal("ASCII keyword matching must be case-insensitive")
	}
}

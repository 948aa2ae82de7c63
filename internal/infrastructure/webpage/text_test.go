package webpage

import "testing"

func TestCleanTextDecodesEntities(t *testing.T) {
	t.Parallel()

	got := cleanText(`<p>Tom &amp; Jerry&#39;s guide to &lt;gait&gt; analysis</p>`)
	want := "Tom & Jerry's guide to <gait> analysis"
	if got != want {
		t.Fatalf("cleanText = %q, want %q", got, want)
	}
}

func TestCleanTextCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	got := cleanText("<div>  first   line </div>\n\n\n<div>second\tline</div>")
	want := "first line\nsecond line"
	if got != want {
		t.Fatalf("cleanText = %q, want %q", got, want)
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	if got := truncateRunes("日本語のテキスト", 3); got != "日本語" {
		t.Fatalf("truncateRunes = %q", got)
	}
	if got := truncateRunes("short", 10); got != "short" {
		t.Fatalf("truncateRunes should leave short strings alone, got %q", got)
	}
}

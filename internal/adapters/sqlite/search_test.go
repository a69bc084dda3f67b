package sqlite

import (
	"testing"

	"cardbox/internal/domain"
)

func searchFixture(t *testing.T) (*Index, string) {
	t.Helper()
	idx := openTestIndex(t)
	root := t.TempDir()
	writeCard(t, root, "warming.md",
		"# Warming Advantage\n\n## Warming is anthropogenic\n\nSmith 2024\n")
	writeCard(t, root, "politics.md", "# Politics DA\n")
	canonical, err := idx.AddRoot(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := idx.IndexRoot(canonical, nil); err != nil {
		t.Fatal(err)
	}
	return idx, canonical
}

func TestSearch_HeadingHits(t *testing.T) {
	idx, root := searchFixture(t)

	hits, err := idx.Search("warming", root, 0)
	if err != nil {
		t.Fatal(err)
	}
	headings := 0
	files := 0
	for _, h := range hits {
		switch h.Kind {
		case domain.HitKindHeading:
			headings++
			if h.HeadingOrder < 0 || h.HeadingLevel < 1 {
				t.Errorf("heading hit missing position: %+v", h)
			}
		case domain.HitKindFile:
			files++
			if h.HeadingOrder != -1 {
				t.Errorf("file hit carries heading order: %+v", h)
			}
		}
		if h.FileName == "" || h.AbsolutePath == "" {
			t.Errorf("hit missing file identity: %+v", h)
		}
	}
	if headings != 2 || files != 1 {
		t.Errorf("got %d heading and %d file hits, want 2 and 1", headings, files)
	}
}

func TestSearch_AuthorHits(t *testing.T) {
	idx, root := searchFixture(t)

	hits, err := idx.Search("smith", root, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Kind != domain.HitKindAuthor {
		t.Fatalf("hits = %+v, want one author hit", hits)
	}
	if hits[0].HeadingText != "Smith 2024" {
		t.Errorf("author hit text = %q", hits[0].HeadingText)
	}
}

func TestSearch_PrefixMatch(t *testing.T) {
	idx, root := searchFixture(t)

	hits, err := idx.Search("anthro", root, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].HeadingText != "Warming is anthropogenic" {
		t.Errorf("prefix hits = %+v", hits)
	}
}

func TestSearch_ShortQueryReturnsNothing(t *testing.T) {
	idx, root := searchFixture(t)

	for _, q := range []string{"", " ", "w", " w "} {
		hits, err := idx.Search(q, root, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 0 {
			t.Errorf("query %q returned %d hits, want 0", q, len(hits))
		}
	}
}

func TestSearch_AllRootsAndRootFilter(t *testing.T) {
	idx, first := searchFixture(t)

	second := t.TempDir()
	writeCard(t, second, "other.md", "# Warming rebuttal\n")
	canonical, _ := idx.AddRoot(second)
	if _, err := idx.IndexRoot(canonical, nil); err != nil {
		t.Fatal(err)
	}

	all, err := idx.Search("warming", domain.AllRootsPath, 0)
	if err != nil {
		t.Fatal(err)
	}
	scoped, err := idx.Search("warming", first, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) <= len(scoped) {
		t.Errorf("all-roots search returned %d hits, scoped %d; want more across roots",
			len(all), len(scoped))
	}
	for _, h := range scoped {
		if h.RelativePath == "other.md" {
			t.Errorf("scoped search leaked hit from other root: %+v", h)
		}
	}
}

func TestSearch_RespectsLimit(t *testing.T) {
	idx, root := searchFixture(t)

	hits, err := idx.Search("warming", root, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("got %d hits with limit 1", len(hits))
	}
}

func TestFTSQuery_QuotesTokens(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"warming", `"warming"*`},
		{"  warming  advantage ", `"warming"* "advantage"*`},
		{`he said "hi"`, `"he"* "said"* """hi"""*`},
		{"x", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := ftsQuery(c.in); got != c.want {
			t.Errorf("ftsQuery(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

package types

import "testing"

func TestParseAnalysisContentStructured(t *testing.T) {
	raw := `{"summary":"all good","risks":[{"level":"LOW","description":"minor"}],"actionItems":[{"title":"do it","description":"soon"}]}`
	content, err := ParseAnalysisContent(raw)
	if err != nil {
		t.Fatalf("ParseAnalysisContent: %v", err)
	}
	if content.Kind != AnalysisKindStructured {
		t.Fatalf("expected structured, got %s", content.Kind)
	}
	if content.Summary != "all good" || len(content.Risks) != 1 || len(content.ActionItems) != 1 {
		t.Fatalf("unexpected content: %+v", content)
	}
	if content.Opaque != nil {
		t.Fatalf("structured content must not carry an opaque blob")
	}
}

func TestParseAnalysisContentOpaqueFallback(t *testing.T) {
	raw := `{"verdict":"looks fine","score":7}`
	content, err := ParseAnalysisContent(raw)
	if err != nil {
		t.Fatalf("valid JSON of unknown shape must not error: %v", err)
	}
	if content.Kind != AnalysisKindOpaque {
		t.Fatalf("expected opaque, got %s", content.Kind)
	}
	if string(content.Opaque) != raw {
		t.Fatalf("opaque blob must keep the raw document, got %s", content.Opaque)
	}
}

func TestParseAnalysisContentRejectsNonJSON(t *testing.T) {
	if _, err := ParseAnalysisContent("I refuse to answer in JSON"); err == nil {
		t.Fatalf("expected error for non-JSON input")
	}
	if _, err := ParseAnalysisContent(`["a","b"]`); err == nil {
		t.Fatalf("expected error for a non-object document")
	}
}

func TestParseAnalysisContentTrimsWhitespace(t *testing.T) {
	content, err := ParseAnalysisContent("  \n" + `{"summary":"padded"}` + "\n ")
	if err != nil {
		t.Fatalf("ParseAnalysisContent: %v", err)
	}
	if content.Kind != AnalysisKindStructured || content.Summary != "padded" {
		t.Fatalf("unexpected content: %+v", content)
	}
}

package types

import (
	"encoding/json"
	"strings"
)

type AnalysisKind string

const (
	// AnalysisKindStructured means the model returned the requested
	// summary/risks/actionItems shape.
	AnalysisKindStructured AnalysisKind = "structured"
	// AnalysisKindOpaque means the response was valid JSON but did not bind
	// to any known shape; the raw document is kept as-is.
	AnalysisKindOpaque AnalysisKind = "opaque"
)

type Risk struct {
	Level       string `json:"level"`
	Description string `json:"description"`
}

type ActionItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type TimelineEntry struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// AnalysisContent is the decoded form of AIAnalysisResult.Content. Known
// shapes bind to the typed fields; anything else lands in Opaque so a consumer
// can switch on Kind without guessing at map keys.
type AnalysisContent struct {
	Kind        AnalysisKind    `json:"kind"`
	Summary     string          `json:"summary,omitempty"`
	Risks       []Risk          `json:"risks,omitempty"`
	ActionItems []ActionItem    `json:"actionItems,omitempty"`
	Benefits    []string        `json:"benefits,omitempty"`
	Timeline    []TimelineEntry `json:"timeline,omitempty"`
	Opaque      json.RawMessage `json:"opaque,omitempty"`
}

// ParseAnalysisContent decodes a model completion. It returns an error only
// when raw is not JSON at all; a JSON document of unexpected shape comes back
// as an opaque variant.
func ParseAnalysisContent(raw string) (AnalysisContent, error) {
	trimmed := strings.TrimSpace(raw)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return AnalysisContent{}, err
	}

	var content AnalysisContent
	if err := json.Unmarshal([]byte(trimmed), &content); err == nil && knownShape(probe) {
		content.Kind = AnalysisKindStructured
		content.Opaque = nil
		return content, nil
	}

	return AnalysisContent{
		Kind:   AnalysisKindOpaque,
		Opaque: json.RawMessage(trimmed),
	}, nil
}

func knownShape(doc map[string]json.RawMessage) bool {
	for _, key := range []string{"summary", "risks", "actionItems", "benefits", "timeline"} {
		if _, ok := doc[key]; ok {
			return true
		}
	}
	return false
}

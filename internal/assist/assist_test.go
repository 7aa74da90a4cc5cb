package assist

import (
	"strings"
	"testing"

	"github.com/avollmer/moneylens/internal/model"
	"github.com/avollmer/moneylens/internal/rules"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json untouched",
			in:   `[{"pattern": "x"}]`,
			want: `[{"pattern": "x"}]`,
		},
		{
			name: "json fence stripped",
			in:   "```json\n[{\"pattern\": \"x\"}]\n```",
			want: `[{"pattern": "x"}]`,
		},
		{
			name: "surrounding prose stripped",
			in:   "Here you go:\n[{\"pattern\": \"x\"}]\nHope that helps!",
			want: `[{"pattern": "x"}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.in); got != tt.want {
				t.Errorf("cleanModelJSON = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyPicks(t *testing.T) {
	categories := []model.Category{
		{Name: "Abos", Group: true, Path: "Abos"},
		{Name: "Streaming", Path: "Abos/Streaming"},
	}
	suggestions := []rules.Suggestion{
		{Pattern: `"NETFLIX.COM"`, SuggestedCategory: rules.ManualAssignment, Confidence: rules.Low},
		{Pattern: `"REWE"`, SuggestedCategory: "Lebensmittel", Confidence: rules.High},
		{Pattern: `"Obscure"`, SuggestedCategory: rules.ManualAssignment, Confidence: rules.Low},
	}
	picks := []modelPick{
		{Pattern: `"NETFLIX.COM"`, CategoryPath: "Abos/Streaming"},
		// Resolved suggestions are never overwritten.
		{Pattern: `"REWE"`, CategoryPath: "Abos/Streaming"},
		// Paths outside the taxonomy are dropped.
		{Pattern: `"Obscure"`, CategoryPath: "Invented/Category"},
	}

	applyPicks(suggestions, picks, categories)

	if suggestions[0].SuggestedCategory != "Streaming" {
		t.Errorf("SuggestedCategory = %q, want Streaming", suggestions[0].SuggestedCategory)
	}
	if suggestions[0].CategoryPath != "Abos/Streaming" {
		t.Errorf("CategoryPath = %q, want Abos/Streaming", suggestions[0].CategoryPath)
	}
	if suggestions[1].SuggestedCategory != "Lebensmittel" {
		t.Errorf("Resolved suggestion was overwritten: %q", suggestions[1].SuggestedCategory)
	}
	if suggestions[2].SuggestedCategory != rules.ManualAssignment {
		t.Errorf("Invented category was accepted: %q", suggestions[2].SuggestedCategory)
	}
}

func TestBuildPrompt(t *testing.T) {
	categories := []model.Category{
		{Name: "Abos", Group: true, Path: "Abos"},
		{Name: "Streaming", Path: "Abos/Streaming"},
	}
	unresolved := []rules.Suggestion{
		{Pattern: `"NETFLIX.COM"`},
	}

	prompt := buildPrompt(unresolved, categories)

	if !strings.Contains(prompt, "Abos/Streaming") {
		t.Error("Prompt must list leaf category paths")
	}
	if strings.Contains(prompt, "- Abos\n") {
		t.Error("Prompt must not list group nodes as assignable categories")
	}
	if !strings.Contains(prompt, `"NETFLIX.COM"`) {
		t.Error("Prompt must list the unresolved patterns")
	}
	if !strings.Contains(prompt, "STRICT JSON") {
		t.Error("Prompt must demand strict JSON output")
	}
}

// Package assist fills in rule suggestions the historical matcher could
// not resolve by asking Gemini to pick a category from the ledger's own
// taxonomy.
package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/avollmer/moneylens/internal/model"
	"github.com/avollmer/moneylens/internal/rules"
)

// DefaultModelName is used when the config does not name a model.
const DefaultModelName = "gemini-2.5-flash"

// modelPick is one assignment in the model's JSON response.
type modelPick struct {
	Pattern      string `json:"pattern"`
	CategoryPath string `json:"category_path"`
}

// AnnotateSuggestions asks Gemini to categorize the suggestions that
// ended up as manual assignments. Picks outside the known taxonomy are
// dropped. Resolved suggestions keep low confidence so the output still
// shows they came from the model rather than from history.
func AnnotateSuggestions(
	ctx context.Context,
	modelName string,
	suggestions []rules.Suggestion,
	categories []model.Category,
) error {
	var unresolved []rules.Suggestion
	for _, s := range suggestions {
		if s.SuggestedCategory == rules.ManualAssignment {
			unresolved = append(unresolved, s)
		}
	}
	if len(unresolved) == 0 {
		return nil
	}

	if modelName == "" {
		modelName = DefaultModelName
	}

	prompt := buildPrompt(unresolved, categories)

	// Same client setup as the statement parser.
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return fmt.Errorf("AnnotateSuggestions: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, modelName, contents, nil)
	if err != nil {
		return fmt.Errorf("AnnotateSuggestions: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return fmt.Errorf("AnnotateSuggestions: empty response from model")
	}

	var picks []modelPick
	clean := cleanModelJSON(rawText)
	if err := json.Unmarshal([]byte(clean), &picks); err != nil {
		return fmt.Errorf("AnnotateSuggestions: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	applyPicks(suggestions, picks, categories)
	return nil
}

// buildPrompt lists the ledger's leaf category paths and the unresolved
// patterns with sample bookings.
func buildPrompt(unresolved []rules.Suggestion, categories []model.Category) string {
	var b strings.Builder

	b.WriteString("You are a personal-finance categorization assistant.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Assign each merchant pattern below to exactly one category path from the taxonomy.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a JSON array of objects with fields \"pattern\" and \"category_path\".\n")
	b.WriteString("- \"category_path\" must be copied verbatim from the taxonomy.\n\n")

	b.WriteString("Taxonomy:\n")
	for _, cat := range categories {
		if cat.Group {
			continue
		}
		b.WriteString("- ")
		b.WriteString(cat.Path)
		b.WriteString("\n")
	}

	b.WriteString("\nPatterns:\n")
	for _, s := range unresolved {
		fmt.Fprintf(&b, "- pattern: %s\n", s.Pattern)
		for _, sample := range s.Samples {
			fmt.Fprintf(&b, "  example: %s | %s | %s\n",
				sample.Date, sample.Name, sample.Amount.StringFixed(2))
		}
	}

	b.WriteString("\nReturn ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Do NOT use ```json or any Markdown.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n")

	return b.String()
}

// applyPicks writes valid model assignments back onto the matching
// suggestions.
func applyPicks(suggestions []rules.Suggestion, picks []modelPick, categories []model.Category) {
	byPath := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		if !cat.Group {
			byPath[cat.Path] = cat
		}
	}

	byPattern := make(map[string]string, len(picks))
	for _, p := range picks {
		byPattern[p.Pattern] = p.CategoryPath
	}

	for i := range suggestions {
		s := &suggestions[i]
		if s.SuggestedCategory != rules.ManualAssignment {
			continue
		}
		path, ok := byPattern[s.Pattern]
		if !ok {
			continue
		}
		cat, ok := byPath[path]
		if !ok {
			// Model invented a category; leave the suggestion manual.
			continue
		}
		s.SuggestedCategory = cat.Name
		s.CategoryPath = cat.Path
	}
}

// cleanModelJSON strips Markdown fences and surrounding junk if the
// model ignored the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = s[start : end+1]
			s = strings.TrimSpace(s)
		}
	}

	return s
}

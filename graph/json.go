package graph

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	lineCommentRe   = regexp.MustCompile(`//[^\n]*\n`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	jsonObjectRe    = regexp.MustCompile(`\{[\s\S]*\}`)
)

// cleanJSONResponse strips common model-output artifacts from text: markdown
// code fences, single-line comments, and trailing commas before a closing
// brace or bracket.
func cleanJSONResponse(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	text = lineCommentRe.ReplaceAllString(text+"\n", "\n")
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// decodeJSON unmarshals model output into v, tolerating fenced or chatty
// responses. It tries the raw text, then the cleaned text, then the first
// top-level JSON object embedded in the cleaned text.
func decodeJSON(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	cleaned := cleanJSONResponse(text)
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	if obj := jsonObjectRe.FindString(cleaned); obj != "" {
		if err := json.Unmarshal([]byte(obj), v); err == nil {
			return nil
		}
	}

	// Decode the raw text once more for the error message.
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("failed to parse model output as JSON: %w", err)
	}
	return nil
}

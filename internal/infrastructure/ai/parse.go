package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"listify-shopee-layer/internal/domain"
)

// PlaceholderTitle is used when the model reply carries no parsable JSON;
// the merchant edits it in the form.
const PlaceholderTitle = "請編輯商品標題"

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractContent pulls the listing copy out of unstructured model output.
// Two stages: strict parse of the whole text, then the first fenced code
// block. Anything else degrades to the placeholder title with the raw text
// as description. The second return value reports whether a parse
// succeeded or the fallback was taken.
func ExtractContent(text string) (domain.GeneratedContent, bool) {
	trimmed := strings.TrimSpace(text)

	if content, ok := parseContent(trimmed); ok {
		return content, true
	}

	if m := fencedJSON.FindStringSubmatch(trimmed); m != nil {
		if content, ok := parseContent(m[1]); ok {
			return content, true
		}
	}

	return domain.GeneratedContent{
		Title:       PlaceholderTitle,
		Description: text,
		Tags:        []string{},
	}, false
}

func parseContent(text string) (domain.GeneratedContent, bool) {
	var content domain.GeneratedContent
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return domain.GeneratedContent{}, false
	}
	if content.Tags == nil {
		content.Tags = []string{}
	}
	return content, true
}

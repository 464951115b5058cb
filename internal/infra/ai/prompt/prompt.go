package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
// Recognized rules are appended as human-readable constraint lines; rules
// with an unknown type contribute nothing.
func GetSystemPrompt(rules []aicheck.Rule) string {
	base := `You are a professional e-commerce image quality inspector. Analyze the image and find issues of the following types:

1. **typo**: misspelled, extra or missing characters in text
2. **spec_error**: wrong product specification, model number or dimensions
3. **price_error**: wrong or inconsistent price labels
4. **brand_violation**: misplaced logo, expired brand assets
5. **forbidden_word**: words that must not appear
6. **suggestion**: design or copy improvements

Respond with one valid JSON object only (no markdown, no commentary):
{
    "annotations": [
        {
            "type": "typo|spec_error|price_error|brand_violation|forbidden_word|suggestion",
            "severity": "error|warning|info",
            "position": {
                "x": 100,
                "y": 200,
                "width": 50,
                "height": 20,
                "description": "where the issue is"
            },
            "detected_text": "text as seen",
            "expected_text": "correct text (if applicable)",
            "correction_suggestion": "how to fix it",
            "creative_suggestion": "creative improvement (suggestion type only)",
            "confidence": 85
        }
    ],
    "summary": {
        "total_issues": 3,
        "errors": 1,
        "warnings": 1,
        "suggestions": 1,
        "overall_confidence": 90
    }
}`

	rulesText := RulesText(rules)
	if rulesText == "" {
		return base
	}
	return base + rulesText
}

// RulesText renders recognized rules as constraint lines for the system prompt.
func RulesText(rules []aicheck.Rule) string {
	if len(rules) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range rules {
		switch r.Type {
		case aicheck.RuleProductSpec:
			fmt.Fprintf(&b, "- Product %s: model must be %s, price must be %s\n",
				r.ProductName, r.ProductModel, r.CorrectPrice)
		case aicheck.RuleForbiddenWord:
			fmt.Fprintf(&b, "- Forbidden words: %s\n", strings.Join(r.ForbiddenWords, ", "))
		case aicheck.RuleBrandGuideline:
			fmt.Fprintf(&b, "- Brand guideline: %s\n", r.Description)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "\n\n**Check rules:**\n" + b.String()
}

// GetUserPrompt is the fixed instruction sent alongside the image itself.
func GetUserPrompt() string {
	return "Analyze this image, find all text errors, spec errors and brand violations, and provide creative suggestions. Respond with the JSON per schema."
}

package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
)

func TestGetSystemPrompt_NoRules(t *testing.T) {
	p := GetSystemPrompt(nil)
	assert.Contains(t, p, `"annotations"`)
	assert.NotContains(t, p, "Check rules")
	for _, cat := range []string{"typo", "spec_error", "price_error", "brand_violation", "forbidden_word", "suggestion"} {
		assert.Contains(t, p, cat)
	}
}

func TestRulesText_RecognizedShapes(t *testing.T) {
	txt := RulesText([]aicheck.Rule{
		{Type: aicheck.RuleProductSpec, ProductName: "Phone X", ProductModel: "PX-1", CorrectPrice: "$999"},
		{Type: aicheck.RuleForbiddenWord, ForbiddenWords: []string{"best", "cheapest"}},
		{Type: aicheck.RuleBrandGuideline, Description: "logo bottom-right only"},
	})
	assert.Contains(t, txt, "Product Phone X: model must be PX-1, price must be $999")
	assert.Contains(t, txt, "Forbidden words: best, cheapest")
	assert.Contains(t, txt, "Brand guideline: logo bottom-right only")
}

func TestRulesText_UnknownTypeIgnored(t *testing.T) {
	assert.Empty(t, RulesText([]aicheck.Rule{{Type: "mystery"}}))
}

package aicheck

import "fmt"

// RuleType enum
type RuleType string

const (
	RuleProductSpec    RuleType = "product_spec"
	RuleForbiddenWord  RuleType = "forbidden_word"
	RuleBrandGuideline RuleType = "brand_guideline"
)

// Rule is a tagged-variant check constraint. Which fields are meaningful
// depends on Type; the prompt builder ignores rules with an unknown type.
type Rule struct {
	Type RuleType `json:"rule_type"`

	// product_spec
	ProductName  string `json:"product_name,omitempty"`
	ProductModel string `json:"product_model,omitempty"`
	CorrectPrice string `json:"correct_price,omitempty"`

	// forbidden_word
	ForbiddenWords []string `json:"forbidden_words,omitempty"`

	// brand_guideline
	Description string `json:"description,omitempty"`
}

// Validate checks the variant shape at the API boundary.
func (r Rule) Validate() error {
	switch r.Type {
	case RuleProductSpec:
		if r.ProductName == "" {
			return fmt.Errorf("product_spec rule requires product_name")
		}
	case RuleForbiddenWord:
		if len(r.ForbiddenWords) == 0 {
			return fmt.Errorf("forbidden_word rule requires forbidden_words")
		}
	case RuleBrandGuideline:
		if r.Description == "" {
			return fmt.Errorf("brand_guideline rule requires description")
		}
	default:
		return fmt.Errorf("unknown rule_type: %s", r.Type)
	}
	return nil
}

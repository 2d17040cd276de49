package catalog

import "strings"

// DefaultCategory is assigned when no classification rule matches.
const DefaultCategory = "General"

// rule maps keyword substrings to a category. Rules are evaluated in
// order; the first match wins.
type rule struct {
	keywords []string
	category string
}

// Classifier assigns a category to catalog items whose feed row left
// the category column blank. It is a display heuristic, not part of the
// ordering core.
type Classifier struct {
	rules []rule
}

// NewClassifier builds the classifier with the built-in PPE rule set.
func NewClassifier() *Classifier {
	return &Classifier{rules: []rule{
		{keywords: []string{"glove", "gant"}, category: "Hand protection"},
		{keywords: []string{"helmet", "casque", "bump cap"}, category: "Head protection"},
		{keywords: []string{"goggle", "spectacle", "visor", "lunette"}, category: "Eye protection"},
		{keywords: []string{"mask", "respirator", "ffp", "masque"}, category: "Respiratory protection"},
		{keywords: []string{"ear", "plug", "muff", "bouchon"}, category: "Hearing protection"},
		{keywords: []string{"boot", "shoe", "chaussure", "botte"}, category: "Foot protection"},
		{keywords: []string{"harness", "lanyard", "harnais"}, category: "Fall protection"},
		{keywords: []string{"vest", "jacket", "veste", "gilet", "hi-vis"}, category: "Protective clothing"},
	}}
}

// Classify returns the category for the given item text, falling back
// to DefaultCategory when nothing matches.
func (c *Classifier) Classify(text string) string {
	lowered := strings.ToLower(text)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r.category
			}
		}
	}
	return DefaultCategory
}

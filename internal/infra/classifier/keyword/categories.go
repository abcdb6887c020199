package keyword

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/automaton-pricing/internal/textproc"
)

// Category is a module label with the keywords that signal it.
// Declaration order is the tie-break order.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultCategories are used when no categories file is configured.
var DefaultCategories = []Category{
	{Name: "Wallet Base", Keywords: []string{"wallet", "crypto", "digital currency"}},
	{Name: "KYC/KYB", Keywords: []string{"kyc", "kyb", "verification", "identity", "compliance"}},
	{Name: "Trading Platform", Keywords: []string{"trading", "exchange", "broker", "market"}},
	{Name: "Payment Gateway", Keywords: []string{"payment", "gateway", "transaction", "processing"}},
	{Name: "White Label Solution", Keywords: []string{"white label", "whitelabel", "customizable"}},
}

type categoriesFile struct {
	Categories []Category `yaml:"categories"`
}

// LoadCategories reads a YAML file of the form
//
//	categories:
//	  - name: Wallet Base
//	    keywords: [wallet, crypto]
func LoadCategories(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f categoriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("%s: no categories defined", path)
	}
	for i, c := range f.Categories {
		if strings.TrimSpace(c.Name) == "" || len(c.Keywords) == 0 {
			return nil, fmt.Errorf("%s: category %d needs a name and keywords", path, i)
		}
	}
	return f.Categories, nil
}

// folded lowercases and strips accents from every keyword once.
func folded(cats []Category) []Category {
	out := make([]Category, len(cats))
	for i, c := range cats {
		kws := make([]string, len(c.Keywords))
		for j, k := range c.Keywords {
			kws[j] = textproc.Fold(k)
		}
		out[i] = Category{Name: c.Name, Keywords: kws}
	}
	return out
}

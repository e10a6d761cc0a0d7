package handler

import (
	"html/template"
	"net/url"
	"time"

	"github.com/dukerupert/plushies/internal/domain"
)

// MaxQuantity is the largest quantity offered by the quantity pickers.
const MaxQuantity = 10

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
		"formatPrice": func(m domain.Money) string {
			return m.Format()
		},
		"lineTotal": func(l domain.CartLine) string {
			return l.LineTotal().Format()
		},
		// quantities lists 1..MaxQuantity for <select> options.
		"quantities": func() []int {
			out := make([]int, MaxQuantity)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"optionSelected": func(v *domain.Variant, name, value string) bool {
			return v != nil && v.SelectedOptionValue(name) == value
		},
		"queryEscape": url.QueryEscape,
	}
}

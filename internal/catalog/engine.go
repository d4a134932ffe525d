// internal/catalog/engine.go
package catalog

import "golang.org/x/text/language"

// Result is one evaluation pass. Count always equals len(Products).
type Result struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

// Engine evaluates queries with a fixed collation language.
type Engine struct {
	lang language.Tag
}

func NewEngine(lang language.Tag) *Engine {
	return &Engine{lang: lang}
}

func (e *Engine) Language() language.Tag {
	return e.lang
}

// FilterAndSort recomputes the result from the full product list. The
// input is only read; the result is a fresh slice.
func (e *Engine) FilterAndSort(products []Product, search string, state FilterState, key SortKey) Result {
	m := newMatcher(search, state)
	filtered := make([]Product, 0, len(products))
	for i := range products {
		if m.match(&products[i]) {
			filtered = append(filtered, products[i])
		}
	}
	sortInPlace(filtered, key, e.lang)
	return Result{Products: filtered, Count: len(filtered)}
}

var defaultEngine = NewEngine(DefaultLanguage)

// FilterAndSort evaluates with DefaultLanguage collation.
func FilterAndSort(products []Product, search string, state FilterState, key SortKey) Result {
	return defaultEngine.FilterAndSort(products, search, state, key)
}

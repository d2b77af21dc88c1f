// Package soup provides small find/find-all helpers over goquery selections,
// in the spirit of BeautifulSoup's interface.
package soup

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var (
	// ErrNotFound is returned when no descendant matches a selector.
	ErrNotFound = errors.New("element not found")
	// ErrNoAttribute is returned when an element lacks a requested attribute.
	ErrNoAttribute = errors.New("attribute not found")
)

// compile panics on an invalid selector. Selectors are fixed strings in this
// code base, so an invalid one is a programming error.
func compile(selector string) goquery.Matcher {
	return cascadia.MustCompile(selector)
}

// FindAll returns every descendant of sel matching the selector, in document
// order. The result may be empty.
func FindAll(sel *goquery.Selection, selector string) []*goquery.Selection {
	found := sel.FindMatcher(compile(selector))
	out := make([]*goquery.Selection, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

// Find returns the first descendant of sel matching the selector.
func Find(sel *goquery.Selection, selector string) (*goquery.Selection, error) {
	found := sel.FindMatcher(compile(selector))
	if found.Length() == 0 {
		return nil, fmt.Errorf("%w: '%s' in %s", ErrNotFound, selector, Describe(sel))
	}
	return found.First(), nil
}

// TryAttr reads an attribute of the first element in sel.
func TryAttr(sel *goquery.Selection, name string) (string, error) {
	value, ok := sel.Attr(name)
	if !ok {
		return "", fmt.Errorf("%w: '%s' in %s", ErrNoAttribute, name, Describe(sel))
	}
	return value, nil
}

// Text returns the concatenated text content of sel.
func Text(sel *goquery.Selection) string {
	return sel.Text()
}

// Describe serializes the first element of sel back to HTML, for error messages.
func Describe(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return "<empty selection>"
	}
	html, err := goquery.OuterHtml(sel.First())
	if err != nil {
		return fmt.Sprintf("<unprintable %s: %v>", goquery.NodeName(sel), err)
	}
	return html
}

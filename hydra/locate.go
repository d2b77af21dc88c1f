package hydra

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bryango/hydra-check/soup"
)

// MissingTableError is returned when a page has no table where one is
// expected. Hydra serves such pages both for real errors (no such job) and
// for benign states (job not evaluated yet), so the error only carries the
// page's own explanation.
type MissingTableError struct {
	Selector string
	URL      string
	// Message is the page's alert text, or a synthesized description
	Message string
}

func (e *MissingTableError) Error() string {
	return e.Message
}

func tableSelector(section string) string {
	return strings.TrimSpace(section + " tbody")
}

// LocateTable returns the first table body inside section. An empty
// section matches anywhere in the document.
func LocateTable(doc *goquery.Document, url, section string) (*goquery.Selection, error) {
	selector := tableSelector(section)
	if tbody, err := soup.Find(doc.Selection, selector); err == nil {
		return tbody, nil
	}

	var msg string
	if alert, err := soup.Find(doc.Selection, "div.alert"); err == nil {
		msg = collapseSpace(soup.Text(alert))
	}
	if msg == "" {
		msg = fmt.Sprintf("Unknown error with selector '%s' at %s", selector, url)
	}
	return nil, &MissingTableError{
		Selector: selector,
		URL:      url,
		Message:  msg,
	}
}

// LocateTables returns all table bodies inside section, in document order.
func LocateTables(doc *goquery.Document, section string) []*goquery.Selection {
	return soup.FindAll(doc.Selection, tableSelector(section))
}

// collapseSpace trims s and replaces every run of whitespace by one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

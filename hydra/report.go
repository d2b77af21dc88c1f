package hydra

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Report is implemented by every kind of Hydra page this package reads.
type Report interface {
	// URL is the address of the page.
	URL() string
	// FinishWithError replaces the records of the report by a single
	// placeholder carrying msg.
	FinishWithError(msg string)
}

// fetchDocument retrieves the page of r.
func fetchDocument(ctx context.Context, c *Client, r Report) (*goquery.Document, error) {
	return c.Fetch(ctx, r.URL())
}

// locateTable finds the table body inside section. When the page has no
// such table, r is finished with the page's explanation and ok is false.
func locateTable(doc *goquery.Document, r Report, section string) (tbody *goquery.Selection, ok bool) {
	tbody, err := LocateTable(doc, r.URL(), section)
	if err != nil {
		r.FinishWithError(err.Error())
		return nil, false
	}
	return tbody, true
}

package textproc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, td, th, dt, dd"

// HTMLToText returns the visible text of an HTML document, one block per line.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, svg, head").Remove()

	var parts []string
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(spaceRe.ReplaceAllString(sel.Text(), " ")); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(spaceRe.ReplaceAllString(doc.Text(), " ")), nil
	}
	return strings.Join(parts, "\n"), nil
}

package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/WorkOfStan/web-pages-to-pdf/internal/capture"
)

// readHTML parses the markup export. Every anchor element with a link target
// yields a record; the tag list comes from the link-level data-tag attribute
// (comma-split, trimmed) and the visible anchor text supplies the title.
func readHTML(path string) ([]capture.LinkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse export html: %w", err)
	}

	var records []capture.LinkRecord
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" {
			return
		}
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			title = "untitled"
		}
		var tags []string
		if raw, ok := sel.Attr("data-tag"); ok && raw != "" {
			for _, t := range strings.Split(raw, ",") {
				t = strings.TrimSpace(t)
				if t != "" {
					tags = append(tags, t)
				}
			}
		}
		records = append(records, capture.LinkRecord{URL: href, Title: title, Tags: tags})
	})
	return records, nil
}

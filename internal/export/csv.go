package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/WorkOfStan/web-pages-to-pdf/internal/capture"
)

// readCSV parses the tabular export. The URL comes from resolved_url,
// given_url, or url (in that priority order); the title from resolved_title,
// given_title, or title, defaulting to "untitled". URL well-formedness is not
// validated here.
func readCSV(path string) ([]capture.LinkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read export header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var records []capture.LinkRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read export row: %w", err)
		}
		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		rawURL := firstNonEmpty(field("resolved_url"), field("given_url"), field("url"))
		if rawURL == "" {
			continue
		}
		records = append(records, capture.LinkRecord{
			URL:   rawURL,
			Title: firstNonEmpty(field("resolved_title"), field("given_title"), field("title"), "untitled"),
			Tags:  splitTags(field("tags")),
		})
	}
	return records, nil
}

// Package export parses bookmarking-service export files into link records.
// Two formats are supported: the tabular CSV export with header-named fields
// and the HTML export with anchor-tag links. Rows without a usable URL are
// dropped silently; export files are assumed to contain some unusable rows.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/WorkOfStan/web-pages-to-pdf/internal/capture"
)

// Format identifies the export file layout.
type Format string

// Supported export formats.
const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ParseFormat converts a user-supplied format string. Empty input selects
// detection by file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "html":
		return FormatHTML, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv or html)", s)
	}
}

// DetectFormat guesses the format from the file extension, defaulting to CSV.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatCSV
	}
}

// Read parses the export file at path into an ordered sequence of records.
// An empty format triggers extension-based detection.
func Read(path string, format Format) ([]capture.LinkRecord, error) {
	if format == "" {
		format = DetectFormat(path)
	}
	switch format {
	case FormatCSV:
		return readCSV(path)
	case FormatHTML:
		return readHTML(path)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// splitTags breaks a raw tag field on comma and pipe delimiters, trimming
// each tag and discarding empty segments.
func splitTags(raw string) []string {
	raw = strings.ReplaceAll(raw, "|", ",")
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

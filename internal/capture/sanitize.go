package capture

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// illegalFilenameChars lists the characters stripped from path segments.
// They are removed outright, never substituted.
var illegalFilenameChars = strings.NewReplacer(
	`\`, "",
	"/", "",
	"*", "",
	"?", "",
	":", "",
	`"`, "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFilename removes characters that are unsafe in a path segment and
// trims surrounding whitespace. Empty input yields empty output; callers must
// supply their own fallback for the empty case.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(illegalFilenameChars.Replace(name))
}

// TaskPath computes the destination PDF path for a record at the given
// 1-based index:
//
//	{outputDir}/{tag[0] or "Unlabeled"}/{title or "page_{index}"}_{domain}_{index}.pdf
//
// The tag and title segments are sanitized, and domain is the URL host with a
// leading "www." stripped. The result is deterministic for fixed inputs; the
// embedded index keeps paths unique across records in practice.
func TaskPath(outputDir string, rec LinkRecord, index int) string {
	title := SanitizeFilename(rec.Title)
	if title == "" {
		title = fmt.Sprintf("page_%d", index)
	}
	tag := "Unlabeled"
	if len(rec.Tags) > 0 && rec.Tags[0] != "" {
		tag = rec.Tags[0]
	}
	name := fmt.Sprintf("%s_%s_%d.pdf", title, domainOf(rec.URL), index)
	return filepath.Join(outputDir, SanitizeFilename(tag), name)
}

// BuildTasks derives the ordered task list for a run.
func BuildTasks(outputDir string, records []LinkRecord) []Task {
	tasks := make([]Task, 0, len(records))
	for i, rec := range records {
		tasks = append(tasks, Task{
			Index:      i + 1,
			Record:     rec,
			OutputPath: TaskPath(outputDir, rec, i+1),
		})
	}
	return tasks
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

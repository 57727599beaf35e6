package capture

import (
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "illegal characters stripped", in: "Report: A/B?", want: "Report AB"},
		{name: "all illegal yields empty", in: `\/*?:"<>|`, want: ""},
		{name: "whitespace trimmed", in: "  spaced out  ", want: "spaced out"},
		{name: "empty passthrough", in: "", want: ""},
		{name: "unicode untouched", in: "café notes", want: "café notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.in)
			if got != tt.want {
				t.Fatalf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTaskPath(t *testing.T) {
	tests := []struct {
		name  string
		rec   LinkRecord
		index int
		want  string
	}{
		{
			name:  "tagged record",
			rec:   LinkRecord{URL: "http://example.com/a", Title: "My Article", Tags: []string{"news", "tech"}},
			index: 1,
			want:  filepath.Join("out", "news", "My Article_example.com_1.pdf"),
		},
		{
			name:  "untagged record uses Unlabeled",
			rec:   LinkRecord{URL: "http://example.com/a", Title: "My Article"},
			index: 2,
			want:  filepath.Join("out", "Unlabeled", "My Article_example.com_2.pdf"),
		},
		{
			name:  "www prefix stripped",
			rec:   LinkRecord{URL: "https://www.example.org/x", Title: "T", Tags: []string{"go"}},
			index: 3,
			want:  filepath.Join("out", "go", "T_example.org_3.pdf"),
		},
		{
			name:  "empty title falls back to page index",
			rec:   LinkRecord{URL: "http://example.com", Title: `\/*?`, Tags: []string{"a"}},
			index: 7,
			want:  filepath.Join("out", "a", "page_7_example.com_7.pdf"),
		},
		{
			name:  "tag sanitized",
			rec:   LinkRecord{URL: "http://example.com", Title: "T", Tags: []string{"a/b:c"}},
			index: 1,
			want:  filepath.Join("out", "abc", "T_example.com_1.pdf"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TaskPath("out", tt.rec, tt.index)
			if got != tt.want {
				t.Fatalf("TaskPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaskPathDeterministic(t *testing.T) {
	rec := LinkRecord{URL: "http://example.com/a", Title: "My Article", Tags: []string{"news"}}
	first := TaskPath("out", rec, 5)
	for i := 0; i < 10; i++ {
		if got := TaskPath("out", rec, 5); got != first {
			t.Fatalf("path changed between calls: %q vs %q", got, first)
		}
	}
}

func TestBuildTasks(t *testing.T) {
	records := []LinkRecord{
		{URL: "http://a.example.com", Title: "A"},
		{URL: "http://b.example.com", Title: "B"},
	}
	tasks := BuildTasks("out", records)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Index != 1 || tasks[1].Index != 2 {
		t.Fatalf("indices must be 1-based and ordered: %+v", tasks)
	}
	if tasks[0].OutputPath == tasks[1].OutputPath {
		t.Fatal("distinct records must not share an output path")
	}
}

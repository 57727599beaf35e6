package render

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeFakeChrome writes a shell script that mimics chrome's print-to-pdf
// invocation: it finds the --print-to-pdf flag and writes a PDF header to
// that path.
func writeFakeChrome(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake chrome script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-chrome")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

const printToPDFScript = `out=""
for arg in "$@"; do
  case "$arg" in
    --print-to-pdf=*) out="${arg#--print-to-pdf=}" ;;
  esac
done
printf '%%PDF-1.4 fake' > "$out"
`

func TestExecRenderer_Success(t *testing.T) {
	chrome := writeFakeChrome(t, printToPDFScript)
	out := filepath.Join(t.TempDir(), "page.pdf")

	r := NewExecRenderer(chrome, 5*time.Second, zap.NewNop())
	require.NoError(t, r.RenderPDF(context.Background(), "http://example.com", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "%PDF")

	_, err = os.Stat(out + ".part")
	require.True(t, os.IsNotExist(err), "temporary file must be renamed away")
}

func TestExecRenderer_NonZeroExit(t *testing.T) {
	chrome := writeFakeChrome(t, "echo render blew up >&2\nexit 3\n")
	out := filepath.Join(t.TempDir(), "page.pdf")

	r := NewExecRenderer(chrome, 5*time.Second, zap.NewNop())
	err := r.RenderPDF(context.Background(), "http://example.com", out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "render blew up")

	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr), "no output file on failure")
}

func TestExecRenderer_Timeout(t *testing.T) {
	chrome := writeFakeChrome(t, "sleep 10\n")
	out := filepath.Join(t.TempDir(), "page.pdf")

	r := NewExecRenderer(chrome, 200*time.Millisecond, zap.NewNop())
	start := time.Now()
	err := r.RenderPDF(context.Background(), "http://example.com", out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "timeout")
	require.Less(t, time.Since(start), 5*time.Second, "the subprocess must be killed on expiry")
}

func TestExecRenderer_MissingExecutable(t *testing.T) {
	r := NewExecRenderer("definitely-not-a-browser-on-path", time.Second, zap.NewNop())
	err := r.RenderPDF(context.Background(), "http://example.com", filepath.Join(t.TempDir(), "p.pdf"))
	require.Error(t, err, "unresolvable executables surface as render failures")
}

func TestResolveChromePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh being on PATH")
	}
	resolved := resolveChromePath("sh")
	require.True(t, filepath.IsAbs(resolved), "bare names resolve via PATH, got %q", resolved)

	raw := resolveChromePath("definitely-not-a-browser-on-path")
	require.Equal(t, "definitely-not-a-browser-on-path", raw, "unresolvable names pass through")
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, writeFileAtomic(path, []byte("%PDF-1.4")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(data))

	_, err = os.Stat(path + ".part")
	require.True(t, os.IsNotExist(err))
}

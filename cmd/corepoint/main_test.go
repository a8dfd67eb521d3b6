package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/cwbudde/algo-corepoint/internal/testutil"
)

// containsRow reports whether some line of text contains want once runs of
// whitespace are collapsed.
func containsRow(text, want string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.Join(strings.Fields(line), " "), want) {
			return true
		}
	}
	return false
}

func writeInputs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := imaging.Save(testutil.Whorl(200, 200, 8, 100, 100), filepath.Join(dir, "planted.png")); err != nil {
		t.Fatal(err)
	}
	if err := imaging.Save(testutil.Flat(150, 150, 90), filepath.Join(dir, "flat.png")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRunBatch(t *testing.T) {
	in := writeInputs(t)
	out := filepath.Join(t.TempDir(), "patches")

	for _, parallel := range []string{"-parallel=false", "-parallel=true"} {
		t.Run(parallel, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run([]string{"-i", in, "-o", out, "-save", "-profile", parallel}, &stdout, &stderr)
			if code != 0 {
				t.Fatalf("exit %d, stderr: %s", code, stderr.String())
			}

			text := stdout.String()
			for _, want := range []string{
				"planted.png ok",
				"low_quality",
				"broken.png unreadable",
				"Images processed 2",
				"Unreadable 1",
				"Successes 1 (50.0%)",
				"core_detection",
			} {
				if !containsRow(text, want) {
					t.Errorf("output missing %q:\n%s", want, text)
				}
			}
			if strings.Contains(text, "readme.txt") {
				t.Error("non-image file was processed")
			}
			if _, err := os.Stat(filepath.Join(out, "planted_core.png")); err != nil {
				t.Fatalf("patch not saved: %v", err)
			}
			if _, err := os.Stat(filepath.Join(out, "flat_core.png")); !os.IsNotExist(err) {
				t.Fatal("failed image must not produce a patch")
			}
		})
	}
}

// failingWriter accepts writes until one contains marker.
type failingWriter struct {
	bytes.Buffer
	marker string
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if strings.Contains(string(p), w.marker) {
		return 0, errors.New("disk full")
	}
	return w.Buffer.Write(p)
}

func TestRunReportsOutputErrors(t *testing.T) {
	in := writeInputs(t)
	for _, marker := range []string{"planted.png", "Images processed"} {
		stdout := &failingWriter{marker: marker}
		var stderr bytes.Buffer
		if code := run([]string{"-i", in}, stdout, &stderr); code != 1 {
			t.Fatalf("marker %q: exit %d, want 1", marker, code)
		}
		if !strings.Contains(stderr.String(), "error: disk full") {
			t.Fatalf("marker %q: stderr = %q", marker, stderr.String())
		}
	}
}

func TestRunRecursiveSaveKeepsSubdirectories(t *testing.T) {
	in := t.TempDir()
	for _, sub := range []string{"left", "right"} {
		if err := os.MkdirAll(filepath.Join(in, sub), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := imaging.Save(testutil.Whorl(200, 200, 8, 100, 100), filepath.Join(in, sub, "planted.png")); err != nil {
			t.Fatal(err)
		}
	}
	out := filepath.Join(t.TempDir(), "patches")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-i", in, "-o", out, "-save", "-recursive"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	for _, sub := range []string{"left", "right"} {
		if _, err := os.Stat(filepath.Join(out, sub, "planted_core.png")); err != nil {
			t.Fatalf("patch for %s not saved: %v", sub, err)
		}
	}
}

func TestRunLimitsFiles(t *testing.T) {
	in := writeInputs(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-i", in, "-n", "1"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	// Lexical order puts broken.png first.
	if !containsRow(stdout.String(), "Images processed 0") {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}

func TestRunInfo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-info"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stdout.String(), "SIMD Support:") {
		t.Fatalf("output = %s", stdout.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		args []string
		code int
	}{
		{nil, 2},
		{[]string{"-n", "-1", "-i", "x"}, 2},
		{[]string{"-bogus"}, 2},
		{[]string{"-i", filepath.Join(t.TempDir(), "missing")}, 1},
		{[]string{"-i", t.TempDir()}, 1},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(tt.args, &stdout, &stderr); code != tt.code {
			t.Errorf("run(%q) = %d, want %d; stderr: %s", tt.args, code, tt.code, stderr.String())
		}
	}
}

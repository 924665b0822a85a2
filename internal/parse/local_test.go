package parse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeUTF8Printable(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"\uFEFFhello", "hello"},
		{"line\nbreak\tkept", "line\nbreak\tkept"},
		{"ctrl\x01char", "ctrlchar"},
		{"  trimmed  ", "trimmed"},
		{"repl�aced", "replaced"},
	}
	for _, c := range cases {
		if got := sanitizeUTF8Printable(c.in); got != c.want {
			t.Errorf("sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractTextPages_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.pdf")
	if err := os.WriteFile(path, []byte("plain text, no pdf header"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractTextPages(path); err == nil {
		t.Fatalf("expected error for non-PDF input")
	}
}

func TestExtractTextPages_Missing(t *testing.T) {
	if _, err := ExtractTextPages(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

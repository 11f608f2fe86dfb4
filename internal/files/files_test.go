package files

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"reporte_ventas_20240901_101500.pdf", true},
		{"a", true},
		{"A-b.c_d", true},
		{"", false},
		{".hidden", false},
		{"-dash", false},
		{"../etc/passwd", false},
		{"dir/file.pdf", false},
		{`dir\file.pdf`, false},
		{"name with space", false},
		{"reporte%2F.pdf", false},
	}
	for _, tt := range tests {
		if got := ValidName(tt.name); got != tt.want {
			t.Errorf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStore_SaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	link, err := s.Save("report.csv", []byte("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if link != "/files/report.csv" {
		t.Errorf("Link = %q", link)
	}

	f, info, err := s.Open("report.csv")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "a,b\n1,2\n" || info.Size() != int64(len(data)) {
		t.Errorf("Unexpected content %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected no temp files left, got %d entries", len(entries))
	}
}

func TestStore_Errors(t *testing.T) {
	s, _ := NewStore(t.TempDir(), zerolog.Nop())

	if _, err := s.Save("../escape", nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Save error = %v, want ErrInvalidName", err)
	}
	if _, _, err := s.Open("missing.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open error = %v, want ErrNotFound", err)
	}
	if _, _, err := s.Open("../files_test.go"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Open error = %v, want ErrInvalidName", err)
	}
}

func TestStore_OpenDirectoryIsNotFound(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewStore(dir, zerolog.Nop())
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, _, err := s.Open("sub"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open error = %v, want ErrNotFound", err)
	}
}

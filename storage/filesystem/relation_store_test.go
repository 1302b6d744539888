package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitWritesHeader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := NewRelationStore(dir)

	if err := s.Init([]string{"r_isa", "r_syn"}); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "r_isa.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "source;target;recurrence\n" {
		t.Errorf("got %q", b)
	}

	types, _ := s.Types()
	if len(types) != 2 || types[0] != "r_isa" || types[1] != "r_syn" {
		t.Errorf("got types %v", types)
	}
}

func TestInitKeepsExistingTables(t *testing.T) {
	dir := t.TempDir()
	s := NewRelationStore(dir)
	s.Increment("r_isa", "chat", "animal")

	if err := s.Init([]string{"r_isa"}); err != nil {
		t.Fatal(err)
	}

	rows, _ := s.Scan("r_isa")
	if len(rows) != 1 {
		t.Errorf("Init must not truncate an existing table, got %v", rows)
	}
}

func TestIncrementRewritesTable(t *testing.T) {
	dir := t.TempDir()
	s := NewRelationStore(dir)

	s.Increment("r_isa", "chat", "animal")
	s.Increment("r_isa", "chien", "animal")
	s.Increment("r_isa", "chat", "animal")
	s.Increment("r_isa", "chat", "chat")

	b, err := os.ReadFile(filepath.Join(dir, "r_isa.csv"))
	if err != nil {
		t.Fatal(err)
	}
	want := "source;target;recurrence\nchat;animal;2\nchien;animal;1\n"
	if string(b) != want {
		t.Errorf("got %q, want %q", b, want)
	}

	// a second store over the same directory sees the counts
	rows, err := NewRelationStore(dir).Scan("r_isa")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Recurrence != 2 {
		t.Errorf("got %v", rows)
	}

	tmps, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(tmps) != 0 {
		t.Errorf("temporary files left: %v", tmps)
	}
}

func TestScanMissingTable(t *testing.T) {
	rows, err := NewRelationStore(t.TempDir()).Scan("r_lieu")
	if err != nil || len(rows) != 0 {
		t.Errorf("got %v, %v", rows, err)
	}
}

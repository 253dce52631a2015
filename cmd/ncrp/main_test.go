package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/ncrp-ingest/pkg/store"
)

func TestLoadConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	cfg := loadConfig(filepath.Join(dir, "missing.yaml"), logger)
	if cfg.Addr != ":8430" || cfg.InputDir != "input" || cfg.DBPath != "output/ncrp.db" {
		t.Errorf("defaults = %+v", cfg)
	}

	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("input_dir: /data/in\ndb_path: \"\"\n"), 0644)
	cfg = loadConfig(path, logger)
	if cfg.InputDir != "/data/in" || cfg.DBPath != "" || cfg.OutputDir != "output" {
		t.Errorf("loaded = %+v", cfg)
	}
}

func TestOverride(t *testing.T) {
	v := "config"
	override(&v, "")
	if v != "config" {
		t.Errorf("empty flag replaced value: %q", v)
	}
	override(&v, "flag")
	if v != "flag" {
		t.Errorf("flag ignored: %q", v)
	}
}

func TestRunIngest_FailureClosesStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	os.Mkdir(in, 0755)
	os.WriteFile(filepath.Join(in, "a.csv"),
		[]byte("complaint_id,name,mobile,amount,date\nC1,Priya Sharma,9876543210,1500,2024-03-05\n"), 0644)
	// A regular file where the output directory should be fails the batch summary.
	out := filepath.Join(dir, "out")
	os.WriteFile(out, nil, 0644)
	db := filepath.Join(dir, "db", "ncrp.db")

	cfg := config{InputDir: in, OutputDir: out, DBPath: db}
	if code := runIngest(context.Background(), cfg, logger); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if _, err := os.Stat(db + "-wal"); !os.IsNotExist(err) {
		t.Errorf("store left open: %v", err)
	}
	st, err := store.Open(db)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if n, _ := st.CountComplaints(context.Background(), ""); n != 1 {
		t.Errorf("stored complaints = %d, want 1", n)
	}
}

func TestRunIngest_MissingInputDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config{InputDir: filepath.Join(t.TempDir(), "missing")}
	if code := runIngest(context.Background(), cfg, logger); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

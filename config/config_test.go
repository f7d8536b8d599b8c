package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"librarian/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Index.BatchSize != 64 {
		t.Errorf("expected BatchSize=64, got %d", cfg.Index.BatchSize)
	}
	if cfg.Index.Collection != "books_summaries" {
		t.Errorf("expected Collection=books_summaries, got %s", cfg.Index.Collection)
	}
	if cfg.Retrieve.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.FuzzyCutoff != 0.6 {
		t.Errorf("expected FuzzyCutoff=0.6, got %f", cfg.Retrieve.FuzzyCutoff)
	}
	if cfg.Generation.Temperature != 0.2 {
		t.Errorf("expected Temperature=0.2, got %f", cfg.Generation.Temperature)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected text-embedding-3-small, got %s", cfg.Embedding.Model)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "librarian.yaml")

	content := `
catalog:
  path: books/*.json
index:
  batch_size: 16
retrieve:
  top_k: 5
  fuzzy: false
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Catalog.Path != "books/*.json" {
		t.Errorf("expected catalog path books/*.json, got %s", cfg.Catalog.Path)
	}
	if cfg.Index.BatchSize != 16 {
		t.Errorf("expected BatchSize=16, got %d", cfg.Index.BatchSize)
	}
	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.Fuzzy {
		t.Errorf("expected Fuzzy=false")
	}
	// untouched sections keep their defaults
	if cfg.Index.Collection != "books_summaries" {
		t.Errorf("expected default collection, got %s", cfg.Index.Collection)
	}
}

func TestLoad_ZeroValuesFallBack(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "librarian.yaml")

	content := `
index:
  batch_size: 0
  concurrency: -2
retrieve:
  fuzzy_cutoff: 3
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Index.BatchSize != 64 || cfg.Index.Concurrency != 1 {
		t.Errorf("expected defaults, got batch=%d concurrency=%d", cfg.Index.BatchSize, cfg.Index.Concurrency)
	}
	if cfg.Retrieve.FuzzyCutoff != 0.6 {
		t.Errorf("expected FuzzyCutoff=0.6, got %f", cfg.Retrieve.FuzzyCutoff)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".librarian"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".librarian", "config.yaml")

	content := `
generation:
  model: gpt-4.1-nano
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generation.Model != "gpt-4.1-nano" {
		t.Errorf("expected gpt-4.1-nano, got %s", cfg.Generation.Model)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "librarian.yaml")
	cfg := DefaultConfig()
	cfg.Index.Collection = "shelf"

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Index.Collection != "shelf" {
		t.Errorf("expected shelf, got %s", loaded.Index.Collection)
	}
}

func TestIndexDBPath(t *testing.T) {
	path := IndexDBPath("/home/user/data/embeddings")
	expected := filepath.Join("/home/user/data/embeddings", "index.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}

func TestEnsureIndexDir_Blank(t *testing.T) {
	err := EnsureIndexDir("   ")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("/root", "data/x.json"); got != filepath.Join("/root", "data/x.json") {
		t.Errorf("unexpected %s", got)
	}
	if got := ResolvePath("/root", "/abs/x.json"); got != "/abs/x.json" {
		t.Errorf("unexpected %s", got)
	}
}

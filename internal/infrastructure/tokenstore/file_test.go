package tokenstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	token, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("expected tok-1, got %q", token)
	}
}

func TestFileStore_LoadAbsent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	token, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	ctx := context.Background()

	if err := store.Save(ctx, "old"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Save(ctx, "new"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	token, _ := store.Load(ctx)
	if token != "new" {
		t.Fatalf("expected new, got %q", token)
	}
}

func TestFileStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	// Clearing an absent token is a no-op.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}

	token, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

func TestFileStore_OnDiskFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	if err := store.Save(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if doc["jwt_token"] != "tok-1" {
		t.Fatalf("expected jwt_token key, got %v", doc)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore("seed")
	ctx := context.Background()

	token, _ := store.Load(ctx)
	if token != "seed" {
		t.Fatalf("expected seed, got %q", token)
	}

	_ = store.Save(ctx, "tok-2")
	token, _ = store.Load(ctx)
	if token != "tok-2" {
		t.Fatalf("expected tok-2, got %q", token)
	}

	_ = store.Clear(ctx)
	token, _ = store.Load(ctx)
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJSONStoreMissingFiles(t *testing.T) {
	store, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	videos, err := store.LoadVideos()
	if err != nil || len(videos) != 0 {
		t.Errorf("LoadVideos() = %v, %v; want empty, nil", videos, err)
	}
	users, err := store.LoadUsers()
	if err != nil || len(users) != 0 {
		t.Errorf("LoadUsers() = %v, %v; want empty, nil", users, err)
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "videos.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewJSONStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	// Corrupt file loads as the empty collection, never an error.
	videos, err := store.LoadVideos()
	if err != nil {
		t.Fatalf("LoadVideos() error = %v", err)
	}
	if len(videos) != 0 {
		t.Errorf("LoadVideos() = %v, want empty", videos)
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	store, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := store.SaveVideos(map[string]string{"code1": "file1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveDemos(map[string]string{"code1": "watch this"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveUsers([]int64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	videos, _ := store.LoadVideos()
	if videos["code1"] != "file1" {
		t.Errorf("videos = %v", videos)
	}
	demos, _ := store.LoadDemos()
	if demos["code1"] != "watch this" {
		t.Errorf("demos = %v", demos)
	}
	users, _ := store.LoadUsers()
	if len(users) != 3 {
		t.Errorf("users = %v", users)
	}
}

func TestJSONStorePackageOrder(t *testing.T) {
	store, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	in := []MediaEntry{
		{FileID: "a", Kind: KindVideo},
		{FileID: "b", Kind: KindPhoto},
		{FileID: "c", Kind: KindVideo},
	}
	if err := store.SavePackages(map[string][]MediaEntry{"pkg": in}); err != nil {
		t.Fatal(err)
	}

	packages, err := store.LoadPackages()
	if err != nil {
		t.Fatal(err)
	}
	got := packages["pkg"]
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("item %d = %+v, want %+v", i, got[i], in[i])
		}
	}
}

func TestJSONStoreLegacyPackageFile(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"old": ["file-x", {"file_id": "file-y", "type": "photo"}]}`
	if err := os.WriteFile(filepath.Join(dir, "packages.json"), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewJSONStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	packages, err := store.LoadPackages()
	if err != nil {
		t.Fatal(err)
	}

	got := packages["old"]
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != (MediaEntry{FileID: "file-x", Kind: KindVideo}) {
		t.Errorf("legacy string entry = %+v", got[0])
	}
	if got[1] != (MediaEntry{FileID: "file-y", Kind: KindPhoto}) {
		t.Errorf("object entry = %+v", got[1])
	}
}

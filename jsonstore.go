package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// jsonStore keeps one JSON document per collection in a data directory:
// videos.json, packages.json, demo_messages.json, users.json.
//
// A missing or unreadable file loads as the empty collection. That means a
// corrupt file is silently reset on the next flush — accepted behavior,
// codes are cheap to reissue. The reset is logged so it is at least visible.
type jsonStore struct {
	dir string
}

func NewJSONStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &jsonStore{dir: dir}, nil
}

func (s *jsonStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// loadDoc reads and decodes one collection file into out. out must already
// hold the collection's empty value; it is left untouched on any failure.
func (s *jsonStore) loadDoc(name string, out any) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("store: unreadable file, starting empty", "file", name, "err", err)
		}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("store: corrupt file, starting empty", "file", name, "err", err)
	}
	return nil
}

func (s *jsonStore) saveDoc(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(name), data, 0o644)
}

func (s *jsonStore) LoadVideos() (map[string]string, error) {
	v := map[string]string{}
	return v, s.loadDoc("videos.json", &v)
}

func (s *jsonStore) SaveVideos(v map[string]string) error {
	return s.saveDoc("videos.json", v)
}

func (s *jsonStore) LoadPackages() (map[string][]MediaEntry, error) {
	v := map[string][]MediaEntry{}
	return v, s.loadDoc("packages.json", &v)
}

func (s *jsonStore) SavePackages(v map[string][]MediaEntry) error {
	return s.saveDoc("packages.json", v)
}

func (s *jsonStore) LoadDemos() (map[string]string, error) {
	v := map[string]string{}
	return v, s.loadDoc("demo_messages.json", &v)
}

func (s *jsonStore) SaveDemos(v map[string]string) error {
	return s.saveDoc("demo_messages.json", v)
}

func (s *jsonStore) LoadUsers() ([]int64, error) {
	v := []int64{}
	return v, s.loadDoc("users.json", &v)
}

func (s *jsonStore) SaveUsers(v []int64) error {
	return s.saveDoc("users.json", v)
}

func (s *jsonStore) Close() error {
	return nil
}

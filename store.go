package main

import (
	"encoding/json"
	"fmt"
)

// Media kinds understood by the delivery path.
const (
	KindVideo = "video"
	KindPhoto = "photo"
)

// MediaEntry is one item of a package: a Telegram file_id plus its kind.
//
// The persisted form has two shapes. Old databases store a bare string
// (a video file_id); newer ones store {"file_id": ..., "type": ...}.
// Both must keep loading, so UnmarshalJSON accepts either. New writes
// always produce the object shape.
type MediaEntry struct {
	FileID string `json:"file_id"`
	Kind   string `json:"type"`
}

func (e *MediaEntry) UnmarshalJSON(data []byte) error {
	// Legacy shape: a bare file_id string, implicitly a video.
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.FileID = s
		e.Kind = KindVideo
		return nil
	}

	type entry MediaEntry // drop methods to avoid recursion
	var v entry
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("media entry: %w", err)
	}
	if v.Kind == "" {
		v.Kind = KindVideo
	}
	*e = MediaEntry(v)
	return nil
}

// Store persists the four collections as whole documents. Implementations:
// JSON files on disk (default), SQLite, Postgres.
//
// Load of a missing collection returns the empty value, not an error; a
// Load error means the backend itself is unusable. Save overwrites the
// whole collection.
type Store interface {
	LoadVideos() (map[string]string, error)
	SaveVideos(map[string]string) error

	LoadPackages() (map[string][]MediaEntry, error)
	SavePackages(map[string][]MediaEntry) error

	LoadDemos() (map[string]string, error)
	SaveDemos(map[string]string) error

	LoadUsers() ([]int64, error)
	SaveUsers([]int64) error

	Close() error
}

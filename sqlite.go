package main

import (
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteStore persists the collections in SQLite. Saves keep the
// whole-document contract of the Store: each flush replaces the collection's
// rows in one transaction.
type sqliteStore struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteStore(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, "sqlite3"); err != nil {
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// replaceAll rewrites one table inside a transaction: delete everything,
// insert the new rows.
func (s *sqliteStore) replaceAll(table string, insert string, rows [][]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return err
	}
	for _, args := range rows {
		if _, err := tx.Exec(insert, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) LoadVideos() (map[string]string, error) {
	rows, err := s.db.Query("SELECT code, file_id FROM videos")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var code, fileID string
		if err := rows.Scan(&code, &fileID); err != nil {
			return nil, err
		}
		out[code] = fileID
	}
	return out, rows.Err()
}

func (s *sqliteStore) SaveVideos(v map[string]string) error {
	var args [][]any
	for code, fileID := range v {
		args = append(args, []any{code, fileID})
	}
	return s.replaceAll("videos", "INSERT INTO videos (code, file_id) VALUES (?, ?)", args)
}

func (s *sqliteStore) LoadPackages() (map[string][]MediaEntry, error) {
	rows, err := s.db.Query("SELECT code, file_id, kind FROM package_items ORDER BY code, pos")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]MediaEntry{}
	for rows.Next() {
		var code string
		var e MediaEntry
		if err := rows.Scan(&code, &e.FileID, &e.Kind); err != nil {
			return nil, err
		}
		out[code] = append(out[code], e)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SavePackages(v map[string][]MediaEntry) error {
	var args [][]any
	for code, items := range v {
		for pos, e := range items {
			args = append(args, []any{code, pos, e.FileID, e.Kind})
		}
	}
	return s.replaceAll("package_items",
		"INSERT INTO package_items (code, pos, file_id, kind) VALUES (?, ?, ?, ?)", args)
}

func (s *sqliteStore) LoadDemos() (map[string]string, error) {
	rows, err := s.db.Query("SELECT code, message FROM demo_messages")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var code, message string
		if err := rows.Scan(&code, &message); err != nil {
			return nil, err
		}
		out[code] = message
	}
	return out, rows.Err()
}

func (s *sqliteStore) SaveDemos(v map[string]string) error {
	var args [][]any
	for code, message := range v {
		args = append(args, []any{code, message})
	}
	return s.replaceAll("demo_messages", "INSERT INTO demo_messages (code, message) VALUES (?, ?)", args)
}

func (s *sqliteStore) LoadUsers() ([]int64, error) {
	rows, err := s.db.Query("SELECT user_id FROM users")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SaveUsers(v []int64) error {
	var args [][]any
	for _, id := range v {
		args = append(args, []any{id})
	}
	return s.replaceAll("users", "INSERT INTO users (user_id) VALUES (?)", args)
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

package main

import (
	"database/sql"
	"sync"

	_ "github.com/lib/pq"
)

// pgStore persists the collections in PostgreSQL with the same
// whole-document flush semantics as the SQLite backend.
type pgStore struct {
	db *sql.DB
	mu sync.Mutex
}

func NewPostgresStore(dsn string) (Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := runMigrations(db, "postgres"); err != nil {
		return nil, err
	}

	return &pgStore{db: db}, nil
}

func (s *pgStore) replaceAll(table string, insert string, rows [][]any) error {
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

func (s *pgStore) LoadVideos() (map[string]string, error) {
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

func (s *pgStore) SaveVideos(v map[string]string) error {
	var args [][]any
	for code, fileID := range v {
		args = append(args, []any{code, fileID})
	}
	return s.replaceAll("videos", "INSERT INTO videos (code, file_id) VALUES ($1, $2)", args)
}

func (s *pgStore) LoadPackages() (map[string][]MediaEntry, error) {
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

func (s *pgStore) SavePackages(v map[string][]MediaEntry) error {
	var args [][]any
	for code, items := range v {
		for pos, e := range items {
			args = append(args, []any{code, pos, e.FileID, e.Kind})
		}
	}
	return s.replaceAll("package_items",
		"INSERT INTO package_items (code, pos, file_id, kind) VALUES ($1, $2, $3, $4)", args)
}

func (s *pgStore) LoadDemos() (map[string]string, error) {
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

func (s *pgStore) SaveDemos(v map[string]string) error {
	var args [][]any
	for code, message := range v {
		args = append(args, []any{code, message})
	}
	return s.replaceAll("demo_messages", "INSERT INTO demo_messages (code, message) VALUES ($1, $2)", args)
}

func (s *pgStore) LoadUsers() ([]int64, error) {
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

func (s *pgStore) SaveUsers(v []int64) error {
	var args [][]any
	for _, id := range v {
		args = append(args, []any{id})
	}
	return s.replaceAll("users", "INSERT INTO users (user_id) VALUES ($1)", args)
}

func (s *pgStore) Close() error {
	return s.db.Close()
}

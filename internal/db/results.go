package db

import (
	"database/sql"
	"fmt"
)

// StepResult is one recorded execution result.
type StepResult struct {
	FilePath   string
	Line       int
	Status     string
	Message    string
	RecordedAt string
}

// RecordResult stores a result for the step at line of filePath,
// registering the file on first use.
func RecordResult(db *sql.DB, filePath string, line int, status, message string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO files (file_path) VALUES (?)`, filePath); err != nil {
		return fmt.Errorf("registering %s: %w", filePath, err)
	}

	var fileID int64
	if err := tx.QueryRow(`SELECT id FROM files WHERE file_path = ?`, filePath).Scan(&fileID); err != nil {
		return fmt.Errorf("querying %s: %w", filePath, err)
	}

	_, err = tx.Exec(`INSERT INTO results (file_id, line, status, message) VALUES (?, ?, ?, ?)`,
		fileID, line, status, message)
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}

	return tx.Commit()
}

// LatestResults returns the newest result per step line of filePath.
func LatestResults(db *sql.DB, filePath string) (map[int]StepResult, error) {
	rows, err := db.Query(`
		SELECT f.file_path, r.line, r.status, r.message, r.recorded_at
		FROM results r
		JOIN files f ON r.file_id = f.id
		WHERE f.file_path = ?
		  AND r.id = (SELECT MAX(id) FROM results WHERE file_id = r.file_id AND line = r.line)
	`, filePath)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	results := make(map[int]StepResult)
	for rows.Next() {
		var r StepResult
		if err := rows.Scan(&r.FilePath, &r.Line, &r.Status, &r.Message, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results[r.Line] = r
	}
	return results, rows.Err()
}

// ListResults returns the newest result of every recorded step, ordered
// by file then line.
func ListResults(db *sql.DB) ([]StepResult, error) {
	rows, err := db.Query(`
		SELECT f.file_path, r.line, r.status, r.message, r.recorded_at
		FROM results r
		JOIN files f ON r.file_id = f.id
		WHERE r.id = (SELECT MAX(id) FROM results WHERE file_id = r.file_id AND line = r.line)
		ORDER BY f.file_path, r.line
	`)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []StepResult
	for rows.Next() {
		var r StepResult
		if err := rows.Scan(&r.FilePath, &r.Line, &r.Status, &r.Message, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

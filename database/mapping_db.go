// Package database хранит результаты сопоставления файлов с проектами
// в SQLite. База служит журналом прогонов: по ней строится статистика
// качества сопоставления и история обработки папок.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"rbmfprocessor/matching"
)

// MappingDB обертка для работы с базой сопоставлений
type MappingDB struct {
	conn *sql.DB
}

// FileMapping сохраненное сопоставление файла с проектом
type FileMapping struct {
	ID         int64   `json:"id"`
	RunID      string  `json:"run_id"`
	FolderName string  `json:"folder_name"`
	FileName   string  `json:"file_name"`
	ProjectID  string  `json:"project_id"`
	Confidence float64 `json:"confidence"`
	MatchKind  string  `json:"match_kind"`
	CreatedAt  string  `json:"created_at"`
}

// NewMappingDB создает новое подключение к базе сопоставлений
func NewMappingDB(dbPath string) (*MappingDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping database: %w", err)
	}

	// SQLite плохо переносит много одновременных писателей
	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping mapping database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db := &MappingDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// migrate создает схему базы сопоставлений
func (db *MappingDB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS file_mappings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		folder_name TEXT NOT NULL,
		file_name TEXT NOT NULL,
		project_id TEXT NOT NULL DEFAULT '',
		confidence REAL NOT NULL DEFAULT 0,
		match_kind TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	CREATE INDEX IF NOT EXISTS idx_file_mappings_run ON file_mappings(run_id);
	CREATE INDEX IF NOT EXISTS idx_file_mappings_folder ON file_mappings(folder_name);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create mapping schema: %w", err)
	}

	return nil
}

// SaveMapping сохраняет результат сопоставления одного файла
func (db *MappingDB) SaveMapping(runID, folderName, fileName string, result matching.MatchResult) error {
	_, err := db.conn.Exec(`
		INSERT INTO file_mappings (run_id, folder_name, file_name, project_id, confidence, match_kind)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, folderName, fileName, result.MatchedProjectID, result.Confidence, string(result.Kind))
	if err != nil {
		return fmt.Errorf("failed to save file mapping: %w", err)
	}

	return nil
}

// MappingsForRun возвращает все сопоставления одного прогона
func (db *MappingDB) MappingsForRun(runID string) ([]FileMapping, error) {
	rows, err := db.conn.Query(`
		SELECT id, run_id, folder_name, file_name, project_id, confidence, match_kind, created_at
		FROM file_mappings
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query file mappings: %w", err)
	}
	defer rows.Close()

	return scanMappings(rows)
}

// MappingsForFolder возвращает сопоставления одной папки за все прогоны
func (db *MappingDB) MappingsForFolder(folderName string) ([]FileMapping, error) {
	rows, err := db.conn.Query(`
		SELECT id, run_id, folder_name, file_name, project_id, confidence, match_kind, created_at
		FROM file_mappings
		WHERE folder_name = ?
		ORDER BY id`, folderName)
	if err != nil {
		return nil, fmt.Errorf("failed to query folder mappings: %w", err)
	}
	defer rows.Close()

	return scanMappings(rows)
}

func scanMappings(rows *sql.Rows) ([]FileMapping, error) {
	mappings := []FileMapping{}
	for rows.Next() {
		var m FileMapping
		if err := rows.Scan(&m.ID, &m.RunID, &m.FolderName, &m.FileName,
			&m.ProjectID, &m.Confidence, &m.MatchKind, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mapping row: %w", err)
		}
		mappings = append(mappings, m)
	}

	return mappings, rows.Err()
}

// RunStatistics сводка качества сопоставления по прогону
type RunStatistics struct {
	TotalFiles   int `json:"total_files"`
	ExactMatches int `json:"exact_matches"`
	FuzzyMatches int `json:"fuzzy_matches"`
	Unmatched    int `json:"unmatched"`
}

// StatisticsForRun возвращает сводную статистику прогона
func (db *MappingDB) StatisticsForRun(runID string) (*RunStatistics, error) {
	stats := &RunStatistics{}

	err := db.conn.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN match_kind IN (?, ?) THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN match_kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN match_kind = ? THEN 1 ELSE 0 END), 0)
		FROM file_mappings
		WHERE run_id = ?`,
		string(matching.MatchExact), string(matching.MatchExactSubstring),
		string(matching.MatchFuzzy), string(matching.MatchNone),
		runID).Scan(&stats.TotalFiles, &stats.ExactMatches, &stats.FuzzyMatches, &stats.Unmatched)
	if err != nil {
		return nil, fmt.Errorf("failed to query run statistics: %w", err)
	}

	return stats, nil
}

// Close закрывает подключение к базе
func (db *MappingDB) Close() error {
	return db.conn.Close()
}

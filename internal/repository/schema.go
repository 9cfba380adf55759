package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS departments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		department_id INTEGER NOT NULL REFERENCES departments(id)
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		school_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		department TEXT,
		course TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS subject_grades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		subject TEXT NOT NULL,
		units REAL DEFAULT 3.0,
		grade REAL,
		year INTEGER NOT NULL DEFAULT 1,
		semester INTEGER NOT NULL DEFAULT 1,
		recorded_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subject_grades_student ON subject_grades (student_id, recorded_at)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS departments (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(128) NOT NULL,
		department_id BIGINT NOT NULL REFERENCES departments(id)
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id BIGSERIAL PRIMARY KEY,
		school_id VARCHAR(64) NOT NULL UNIQUE,
		name VARCHAR(120) NOT NULL,
		department VARCHAR(64),
		course VARCHAR(128)
	)`,
	`CREATE TABLE IF NOT EXISTS subject_grades (
		id BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		subject VARCHAR(128) NOT NULL,
		units DOUBLE PRECISION DEFAULT 3.0,
		grade DOUBLE PRECISION,
		year INTEGER NOT NULL DEFAULT 1,
		semester INTEGER NOT NULL DEFAULT 1,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subject_grades_student ON subject_grades (student_id, recorded_at)`,
}

// Migrate creates the gradebook tables for the connection's driver.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var stmts []string
	switch db.DriverName() {
	case "sqlite3":
		stmts = sqliteSchema
	case "postgres":
		stmts = postgresSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", db.DriverName())
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// seedCatalog lists the colleges and programs every installation starts with.
var seedCatalog = []struct {
	department string
	courses    []string
}{
	{
		department: "COTE",
		courses: []string{
			"Bachelor of Industrial Technology - Computer Technology (BIT-CT)",
			"Bachelor of Industrial Technology - Electronics Technology (BIT-ET)",
			"Bachelor of Science in Industrial Engineering (BSIE)",
			"Bachelor of Science in Fishery (BSFi)",
		},
	},
	{
		department: "COED",
		courses: []string{
			"Bachelor of Elementary Education (BEEd)",
			"Bachelor of Technology and Livelihood Education (BTLED) - Home Economics",
			"Bachelor of Secondary Education (BSEd) - Mathematics",
			"Bachelor of Secondary Education (BSEd) - Sciences",
		},
	},
	{
		department: "COBM",
		courses: []string{
			"Bachelor of Science in Hospitality Management (BSHM)",
			"Bachelor of Science in Tourism Management (BSTM)",
		},
	},
}

// Seed inserts the department catalogue. Departments that already exist are
// left untouched, so Seed is safe to run on every start.
func Seed(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range seedCatalog {
		var exists int
		err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM departments WHERE name = ?`), entry.department)
		if err != nil {
			return fmt.Errorf("seed: lookup %s: %w", entry.department, err)
		}
		if exists > 0 {
			continue
		}

		var deptID int64
		err = tx.QueryRowxContext(ctx, tx.Rebind(`INSERT INTO departments (name) VALUES (?) RETURNING id`), entry.department).Scan(&deptID)
		if err != nil {
			return fmt.Errorf("seed: insert %s: %w", entry.department, err)
		}
		for _, course := range entry.courses {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO courses (name, department_id) VALUES (?, ?)`), course, deptID); err != nil {
				return fmt.Errorf("seed: insert course %q: %w", course, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"diaria/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Export statuses for the entries table.
const (
	ExportPending = "pending"
	ExportDone    = "exported"
	ExportError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.Password, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, ErrEmailTaken
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password, created_at, updated_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password, created_at, updated_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, name, password, created_at, updated_at FROM users
		 ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	e.ID = uuid.NewString()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (id, user_id, date, day_of_week, gross_cents, expenses_cents,
		                      net_cents, description, created_at, updated_at, export_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Date.String(), e.DayOfWeek,
		e.Gross.Cents, e.Expenses.Cents, e.Net.Cents,
		e.Description, e.CreatedAt, e.UpdatedAt, ExportPending)
	if err != nil {
		return core.Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry created",
		"entry_id", e.ID,
		"user_id", e.UserID,
		"date", e.Date.String(),
		"net_cents", e.Net.Cents)
	return e, nil
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx, selectEntry+` WHERE id = ?`, id)
	return scanEntry(row)
}

func (r *SQLiteRepository) UpdateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	e.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`UPDATE entries
		 SET date = ?, day_of_week = ?, gross_cents = ?, expenses_cents = ?,
		     net_cents = ?, description = ?, updated_at = ?, export_status = ?
		 WHERE id = ?`,
		e.Date.String(), e.DayOfWeek, e.Gross.Cents, e.Expenses.Cents,
		e.Net.Cents, e.Description, e.UpdatedAt, ExportPending, e.ID)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Entry{}, ErrNotFound
	}

	slog.InfoContext(ctx, "Entry updated", "entry_id", e.ID, "net_cents", e.Net.Cents)
	return e, nil
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Entry deleted", "entry_id", id)
	return nil
}

// ListEntries returns a page of a user's entries, newest first, plus the total count.
func (r *SQLiteRepository) ListEntries(ctx context.Context, userID string, skip, take int) ([]core.Entry, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		selectEntry+` WHERE user_id = ? ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?`,
		userID, take, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// EntriesInRange returns entries with start <= date <= end, oldest first.
// An empty userID spans all users.
func (r *SQLiteRepository) EntriesInRange(ctx context.Context, userID string, start, end core.Date) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectEntry+` WHERE (? = '' OR user_id = ?) AND date >= ? AND date <= ? ORDER BY date, created_at`,
		userID, userID, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("entries in range: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// EntriesForUser returns every entry of a user, newest first.
func (r *SQLiteRepository) EntriesForUser(ctx context.Context, userID string) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectEntry+` WHERE user_id = ? ORDER BY date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("entries for user: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// EntriesOnDay returns the entries for a single date in creation order.
// An empty userID spans all users.
func (r *SQLiteRepository) EntriesOnDay(ctx context.Context, userID string, date core.Date) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectEntry+` WHERE (? = '' OR user_id = ?) AND date = ? ORDER BY created_at`,
		userID, userID, date.String())
	if err != nil {
		return nil, fmt.Errorf("entries on day: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *SQLiteRepository) RecentEntries(ctx context.Context, userID string, limit int) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectEntry+` WHERE user_id = ? ORDER BY date DESC, created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// PendingExportEntries returns entries awaiting export, oldest first.
func (r *SQLiteRepository) PendingExportEntries(ctx context.Context, limit int) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectEntry+` WHERE export_status = ? ORDER BY created_at LIMIT ?`, ExportPending, limit)
	if err != nil {
		return nil, fmt.Errorf("pending export entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET export_status = ?, exported_at = ? WHERE id = ?`,
		ExportDone, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark entry exported: %w", err)
	}
	slog.InfoContext(ctx, "Entry marked as exported", "entry_id", id)
	return nil
}

func (r *SQLiteRepository) MarkExportError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET export_status = ? WHERE id = ?`, ExportError, id)
	if err != nil {
		return fmt.Errorf("mark entry export error: %w", err)
	}
	slog.WarnContext(ctx, "Entry marked with export error", "entry_id", id)
	return nil
}

const selectEntry = `SELECT id, user_id, date, day_of_week, gross_cents, expenses_cents,
       net_cents, description, created_at, updated_at FROM entries`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e       core.Entry
		dateStr string
	)
	err := row.Scan(&e.ID, &e.UserID, &dateStr, &e.DayOfWeek,
		&e.Gross.Cents, &e.Expenses.Cents, &e.Net.Cents,
		&e.Description, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse entry date %q: %w", dateStr, err)
	}
	e.Date = core.DateOf(t)
	return e, nil
}

func collectEntries(rows *sql.Rows) ([]core.Entry, error) {
	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

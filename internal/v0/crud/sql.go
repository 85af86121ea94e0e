package crud

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/database"
	"HostelAPI/internal/validation"

	"github.com/jmoiron/sqlx"
)

// WithTx runs fn inside a transaction, rolling back on error or panic
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Validate runs the record's own validate tags, the last check before a write
func Validate(record interface{}) error {
	if verr := validation.ValidateStruct(record); verr != nil {
		return verr
	}
	return nil
}

// NotFoundIfNoRows maps sql.ErrNoRows to ErrNotFound
func NotFoundIfNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// RequireAffected returns ErrNotFound when a write touched no rows
func RequireAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MapUniqueViolation turns a unique-constraint failure into a Conflict with msg
func MapUniqueViolation(err error, msg string) error {
	if database.IsUniqueViolation(err) {
		return Conflict(msg)
	}
	return err
}

// Table describes the SQL shape shared by owned resources
type Table struct {
	Name        string
	Columns     string
	OwnerColumn string
}

// SelectList returns the rows of t matching opts, newest first
func SelectList[T any](ctx context.Context, db *sqlx.DB, t Table, opts ListOptions) ([]T, error) {
	var (
		where []string
		args  []interface{}
	)
	if opts.OwnerID != "" && t.OwnerColumn != "" {
		where = append(where, t.OwnerColumn+" = ?")
		args = append(args, opts.OwnerID)
	}
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}

	query := "SELECT " + t.Columns + " FROM " + t.Name
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows := []T{}
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// SelectOne returns the row of t with id, or ErrNotFound
func SelectOne[T any](ctx context.Context, q sqlx.QueryerContext, t Table, id string) (*T, error) {
	var row T
	err := sqlx.GetContext(ctx, q, &row, "SELECT "+t.Columns+" FROM "+t.Name+" WHERE id = ?", id)
	if err != nil {
		return nil, NotFoundIfNoRows(err)
	}
	return &row, nil
}

// DeleteByID removes the row of t with id, or returns ErrNotFound
func DeleteByID(ctx context.Context, db *sqlx.DB, t Table, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+t.Name+" WHERE id = ?", id)
	return RequireAffected(res, err)
}

// UserResolver turns user ids into {id, name, email}
type UserResolver interface {
	GetUserRefs(ctx context.Context, ids []string) (map[string]*auth.UserRef, error)
}

// ResolveUser looks up a single reference; a missing user resolves to nil
func ResolveUser(ctx context.Context, users UserResolver, id string) (*auth.UserRef, error) {
	if users == nil || id == "" {
		return nil, nil
	}
	refs, err := users.GetUserRefs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return refs[id], nil
}

// ResolveUsers looks up every distinct non-empty id in a single call
func ResolveUsers(ctx context.Context, users UserResolver, ids []string) (map[string]*auth.UserRef, error) {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if users == nil || len(unique) == 0 {
		return map[string]*auth.UserRef{}, nil
	}
	return users.GetUserRefs(ctx, unique)
}

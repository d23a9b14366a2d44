// Package sqlstore implements the storage.Provider data methods over
// database/sql. The SQLite and PostgreSQL backends embed Queries and only
// add connection lifecycle and migrations.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/storage"
)

type Placeholder int

const (
	Question Placeholder = iota // ?
	Dollar                      // $1, $2, ...
)

type Queries struct {
	db          *sql.DB
	placeholder Placeholder
	now         func() time.Time
}

func New(db *sql.DB, placeholder Placeholder) *Queries {
	return &Queries{
		db:          db,
		placeholder: placeholder,
		now:         time.Now,
	}
}

// SetClock replaces the clock used to stamp archive and delete times.
func (q *Queries) SetClock(now func() time.Time) {
	q.now = now
}

// DB returns the underlying connection.
func (q *Queries) DB() *sql.DB {
	return q.db
}

// rebind rewrites ? placeholders for the target database.
func (q *Queries) rebind(query string) string {
	if q.placeholder == Question {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (q *Queries) exec(query string, args ...any) (sql.Result, error) {
	return q.db.Exec(q.rebind(query), args...)
}

func (q *Queries) query(query string, args ...any) (*sql.Rows, error) {
	return q.db.Query(q.rebind(query), args...)
}

func (q *Queries) queryRow(query string, args ...any) *sql.Row {
	return q.db.QueryRow(q.rebind(query), args...)
}

// execOne runs an UPDATE or DELETE that must touch exactly one row and
// reports storage.ErrNotFound with msg otherwise.
func (q *Queries) execOne(msg string, query string, args ...any) error {
	result, err := q.exec(query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, msg)
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, what)
	}
	return err
}

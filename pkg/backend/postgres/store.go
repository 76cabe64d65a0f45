// Package postgres implements the table storage capability on a Postgres
// server. Rows are kept as one jsonb document per record so the dynamic form
// payloads need no schema migrations.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
)

const driverName = "pgx"

type Store struct {
	db      *sql.DB
	allowed map[string]struct{}
}

// Open connects to Postgres and ensures one document table per allowed table
// name. Table names outside the allowed set are rejected at call time, they
// are interpolated into SQL identifiers.
func Open(dsn string, tables []string) (*Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	allowed := make(map[string]struct{}, len(tables))
	for _, table := range tables {
		allowed[table] = struct{}{}
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
			id TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		)`, table)
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("ensure table %s: %w", table, err)
		}
	}

	return &Store{db: db, allowed: allowed}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) checkTable(table string) error {
	if _, ok := s.allowed[table]; !ok {
		return fmt.Errorf("table %s is not managed by this store", table)
	}
	return nil
}

func whereClause(filters []backend.Filter) (string, []interface{}) {
	if len(filters) == 0 {
		return "", nil
	}
	clause := " WHERE"
	args := make([]interface{}, 0, len(filters)*2)
	for i, filter := range filters {
		if i > 0 {
			clause += " AND"
		}
		clause += fmt.Sprintf(" doc->>$%d = $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Column, fmt.Sprintf("%v", filter.Value))
	}
	return clause, args
}

func (s *Store) Select(ctx context.Context, table string, filters ...backend.Filter) ([]backend.Row, error) {
	if err := s.checkTable(table); err != nil {
		return nil, err
	}

	clause, args := whereClause(filters)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT doc FROM %q`, table)+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var result []backend.Row
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var row backend.Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *Store) Insert(ctx context.Context, table string, row backend.Row) (backend.Row, error) {
	if err := s.checkTable(table); err != nil {
		return nil, err
	}

	if row.StringField("id") == "" {
		row["id"] = uuid.NewString()
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %q (id, doc) VALUES ($1, $2)`, table),
		row.StringField("id"), raw)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}
	return row, nil
}

func (s *Store) Update(ctx context.Context, table string, values backend.Row, filters ...backend.Filter) ([]backend.Row, error) {
	if err := s.checkTable(table); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}

	clause, args := whereClause(filters)
	// shift the filter placeholders to make room for the merge payload
	query := fmt.Sprintf(`UPDATE %q SET doc = doc || $1::jsonb`, table) + shiftPlaceholders(clause, 1)
	if _, err := s.db.ExecContext(ctx, query, append([]interface{}{raw}, args...)...); err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	return s.Select(ctx, table, filters...)
}

func (s *Store) Delete(ctx context.Context, table string, filters ...backend.Filter) error {
	if err := s.checkTable(table); err != nil {
		return err
	}

	clause, args := whereClause(filters)
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q`, table)+clause, args...); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

func shiftPlaceholders(clause string, by int) string {
	// placeholders in the clause are numbered from $1; renumber them after
	// prepending extra arguments
	result := make([]rune, 0, len(clause))
	runes := []rune(clause)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '$' {
			j := i + 1
			n := 0
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				n = n*10 + int(runes[j]-'0')
				j++
			}
			result = append(result, []rune(fmt.Sprintf("$%d", n+by))...)
			i = j - 1
			continue
		}
		result = append(result, runes[i])
	}
	return string(result)
}

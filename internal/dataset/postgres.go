package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// PostgresSource loads the transaction table from PostgreSQL. Columns follow
// the CSV headers; Time, Amount and Class match case-insensitively.
type PostgresSource struct {
	DSN    string
	Table  string
	Schema Schema

	// Open defaults to sql.Open; tests replace it.
	Open func(driver, dsn string) (*sql.DB, error)
}

func (p *PostgresSource) Describe() string { return "postgres:" + p.Table }

// SelectQuery returns the statement used to read the table. The table name
// is quoted as an identifier, schema-qualified names included.
func (p *PostgresSource) SelectQuery() string {
	return "SELECT * FROM " + quoteTable(p.Table)
}

func (p *PostgresSource) Load(ctx context.Context) (*Dataset, error) {
	open := p.Open
	if open == nil {
		open = sql.Open
	}
	db, err := open("postgres", p.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: ping: %v", ErrFetch, err)
	}

	rows, err := db.QueryContext(ctx, p.SelectQuery())
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrFetch, p.Table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	schema := p.Schema
	if len(schema.Required) == 0 {
		schema = DefaultSchema()
	}
	b, err := newBuilder(columns, schema)
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, len(columns))
	valuePtrs := make([]interface{}, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	record := make([]string, len(columns))

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrFetch, err)
		}
		for i, v := range values {
			record[i] = sqlValueString(v)
		}
		if err := b.add(record); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return b.build(p.Describe())
}

// sqlValueString converts a scanned driver value to the textual form the
// CSV path would have seen.
func sqlValueString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "1"
		}
		return "0"
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

func quoteTable(name string) string {
	if schema, table, ok := strings.Cut(name, "."); ok {
		return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
	}
	return pq.QuoteIdentifier(name)
}

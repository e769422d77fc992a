package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	dialectPostgres = "postgres"
	dialectMySQL    = "mysql"
	dialectSQLite   = "sqlite"
)

// insertBatchSize bounds the rows of one multi-row INSERT.
const insertBatchSize = 200

type dialect struct {
	name   string
	driver string
	// numbered placeholders ($1) instead of ?
	numbered bool
	// wraps the document placeholder on insert
	docValue string
	// selects the document column as text
	docColumn string
	nowQuery  string
}

var dialects = map[string]dialect{
	dialectPostgres: {
		name:      dialectPostgres,
		driver:    "pgx",
		numbered:  true,
		docValue:  "CAST(%s AS JSONB)",
		docColumn: "data::text",
		nowQuery:  "SELECT NOW()",
	},
	dialectMySQL: {
		name:      dialectMySQL,
		driver:    "mysql",
		docValue:  "%s",
		docColumn: "data",
		nowQuery:  "SELECT NOW()",
	},
	dialectSQLite: {
		name:      dialectSQLite,
		driver:    "sqlite",
		docValue:  "%s",
		docColumn: "data",
		nowQuery:  "SELECT strftime('%Y-%m-%dT%H:%M:%SZ', 'now')",
	},
}

func (d dialect) placeholder(n int) string {
	if d.numbered {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// RelationalProvider stores every collection in its own table of
// (id, data) rows where data is the full JSON document.
type RelationalProvider struct {
	db      *sql.DB
	dialect dialect
	dsn     string
}

// OpenRelational connects to the database named by databaseURL. Supported
// schemes are postgres://, postgresql://, mysql://, sqlite:// and file:.
func OpenRelational(ctx context.Context, databaseURL string) (*RelationalProvider, error) {
	d, dsn, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.name, err)
	}
	if d.name == dialectSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.InfoContext(ctx, "Connected to relational storage", "dialect", d.name)

	return &RelationalProvider{db: db, dialect: d, dsn: dsn}, nil
}

func (p *RelationalProvider) Kind() Kind { return KindRelational }

// Dialect names the SQL flavour in use.
func (p *RelationalProvider) Dialect() string { return p.dialect.name }

func (p *RelationalProvider) Read(ctx context.Context, c Collection) ([]Record, bool, error) {
	query := fmt.Sprintf("SELECT id, %s FROM %s", p.dialect.docColumn, c.Table())
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", c.Table(), err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, false, fmt.Errorf("scan %s: %w", c.Table(), err)
		}
		records = append(records, Record{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate %s: %w", c.Table(), err)
	}
	return records, true, nil
}

// Write deletes every row of the collection table and inserts records, in
// one SQL transaction.
func (p *RelationalProvider) Write(ctx context.Context, c Collection, records []Record) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+c.Table()); err != nil {
		return fmt.Errorf("clear %s: %w", c.Table(), err)
	}

	for start := 0; start < len(records); start += insertBatchSize {
		end := min(start+insertBatchSize, len(records))
		if err := p.insert(ctx, tx, c.Table(), records[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", c.Table(), err)
	}

	slog.DebugContext(ctx, "Collection replaced", "table", c.Table(), "count", len(records))
	return nil
}

func (p *RelationalProvider) insert(ctx context.Context, tx *sql.Tx, table string, batch []Record) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (id, data) VALUES ")

	args := make([]any, 0, len(batch)*2)
	for i, r := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		idArg := p.dialect.placeholder(len(args) + 1)
		docArg := fmt.Sprintf(p.dialect.docValue, p.dialect.placeholder(len(args)+2))
		sb.WriteString("(" + idArg + ", " + docArg + ")")
		args = append(args, r.ID, string(r.Data))
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// ServerTime asks the database for its current time.
func (p *RelationalProvider) ServerTime(ctx context.Context) (time.Time, error) {
	var raw string
	if err := p.db.QueryRowContext(ctx, p.dialect.nowQuery).Scan(&raw); err != nil {
		return time.Time{}, fmt.Errorf("query server time: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse server time %q: %w", raw, err)
	}
	return t, nil
}

// InitSchema creates the collection tables when they do not exist yet.
func (p *RelationalProvider) InitSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := runMigrations(p.dialect, p.dsn); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Relational schema ready", "dialect", p.dialect.name)
	return nil
}

func (p *RelationalProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// parseDatabaseURL picks the dialect from the URL scheme and converts the URL
// into the DSN its driver expects.
func parseDatabaseURL(raw string) (dialect, string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return dialects[dialectPostgres], raw, nil

	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := mysqlDSN(raw)
		if err != nil {
			return dialect{}, "", err
		}
		return dialects[dialectMySQL], dsn, nil

	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return dialect{}, "", fmt.Errorf("sqlite URL has no path")
		}
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return dialect{}, "", fmt.Errorf("create db directory: %w", err)
			}
		}
		return dialects[dialectSQLite], path, nil

	case strings.HasPrefix(raw, "file:"):
		return dialects[dialectSQLite], raw, nil

	default:
		return dialect{}, "", fmt.Errorf("unsupported database URL scheme in %q", redact(raw))
	}
}

func mysqlDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse mysql URL: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Host + ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	cfg.MultiStatements = true
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		if key == "tls" {
			cfg.TLSConfig = values[0]
			continue
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		cfg.Params[key] = values[0]
	}
	return cfg.FormatDSN(), nil
}

// redact hides credentials before a URL is logged or returned in an error.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

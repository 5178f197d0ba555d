package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/thesisgen/internal/importer"
	"github.com/Rana718/thesisgen/internal/normalize"
	_ "github.com/mattn/go-sqlite3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SnapshotSQLite = "sqlite"
	SnapshotCSV    = "csv"

	// SQLite allows 999 bound variables per statement by default.
	maxBoundVars = 999
)

// validIdentifier guards table and column names spliced into DDL.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type table struct {
	name    string
	columns []string
	rows    [][]interface{}
}

// Snapshot flattens a serialized dataset directory into a single SQLite file
// or a directory of CSV files under out, and returns the path it created.
// Every top-level field becomes a TEXT column; nested values are stored as
// JSON text.
func Snapshot(ctx context.Context, dataDir, out, kind string) (string, error) {
	if kind != SnapshotSQLite && kind != SnapshotCSV {
		return "", fmt.Errorf("unsupported snapshot kind %q", kind)
	}

	tables, err := loadTables(dataDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	if kind == SnapshotCSV {
		return writeCSV(tables, filepath.Join(out, fmt.Sprintf("snapshot_%s_csv", timestamp)))
	}
	return writeSQLite(ctx, tables, filepath.Join(out, fmt.Sprintf("snapshot_%s.db", timestamp)))
}

func loadTables(dataDir string) ([]table, error) {
	src := importer.NewDirSource(dataDir)
	names, err := src.List()
	if err != nil {
		return nil, err
	}

	var tables []table
	for _, name := range names {
		if !validIdentifier.MatchString(name) {
			return nil, fmt.Errorf("invalid collection name: %s", name)
		}
		docs, err := src.Load(name)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			continue
		}

		t, err := flatten(name, docs)
		if err != nil {
			return nil, err
		}
		if len(t.columns) == 0 {
			continue
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// flatten turns documents into rows over the union of their top-level keys,
// _id first and the rest sorted.
func flatten(name string, docs []interface{}) (table, error) {
	var records []map[string]interface{}
	seen := make(map[string]bool)
	for _, raw := range docs {
		doc, ok := normalize.Normalize(raw).(map[string]interface{})
		if !ok {
			return table{}, fmt.Errorf("%s: expected an array of objects", name)
		}
		for key := range doc {
			if !validIdentifier.MatchString(key) {
				return table{}, fmt.Errorf("invalid column name in %s: %s", name, key)
			}
			seen[key] = true
		}
		records = append(records, doc)
	}

	columns := make([]string, 0, len(seen))
	for key := range seen {
		if key != "_id" {
			columns = append(columns, key)
		}
	}
	sort.Strings(columns)
	if seen["_id"] {
		columns = append([]string{"_id"}, columns...)
	}

	t := table{name: name, columns: columns}
	for _, doc := range records {
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			v, err := cellValue(doc[col])
			if err != nil {
				return table{}, fmt.Errorf("%s.%s: %w", name, col, err)
			}
			row[i] = v
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// cellValue renders a normalized value as text, or nil for a missing or
// null field.
func cellValue(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return val, nil
	case primitive.ObjectID:
		return val.Hex(), nil
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}
}

func quote(ident string) string {
	return `"` + ident + `"`
}

func writeSQLite(ctx context.Context, tables []table, filePath string) (string, error) {
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create SQLite database: %w", err)
	}
	defer db.Close()

	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	for _, t := range tables {
		if err := insertTable(ctx, db, qb, t); err != nil {
			return "", err
		}
	}
	return filePath, nil
}

func insertTable(ctx context.Context, db *sql.DB, qb squirrel.StatementBuilderType, t table) error {
	defs := make([]string, len(t.columns))
	cols := make([]string, len(t.columns))
	for i, col := range t.columns {
		cols[i] = quote(col)
		defs[i] = cols[i] + " TEXT"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", t.name, err)
	}
	defer tx.Rollback()

	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", quote(t.name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.name, err)
	}

	batch := max(1, maxBoundVars/len(cols))
	for start := 0; start < len(t.rows); start += batch {
		end := min(start+batch, len(t.rows))
		insert := qb.Insert(quote(t.name)).Columns(cols...)
		for _, row := range t.rows[start:end] {
			insert = insert.Values(row...)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert for %s: %w", t.name, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", t.name, err)
		}
	}
	return tx.Commit()
}

func writeCSV(tables []table, dirPath string) (string, error) {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	for _, t := range tables {
		if err := writeCSVFile(filepath.Join(dirPath, t.name+".csv"), t); err != nil {
			return "", err
		}
	}
	return dirPath, nil
}

func writeCSVFile(path string, t table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file for %s: %w", t.name, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(t.columns); err != nil {
		return err
	}
	for _, row := range t.rows {
		values := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				values[i] = v.(string)
			}
		}
		if err := writer.Write(values); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file for %s: %w", t.name, err)
	}
	return file.Close()
}

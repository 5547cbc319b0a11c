package orders

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL/MariaDB. dsn is either a mysql:// or mariadb:// URL
// or a native driver DSN.
func Open(dsn string) (*sql.DB, error) {
	native, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", native)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "mariadb://") && !strings.HasPrefix(dsn, "mysql://") {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing dsn: %w", err)
	}
	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	db := strings.TrimPrefix(u.Path, "/")
	if user == "" || u.Host == "" || db == "" {
		return "", fmt.Errorf("incomplete dsn: need user, host and database")
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=false&loc=UTC", user, pass, u.Host, db), nil
}

// Query runs q and returns the result set as a table of strings named after
// the result columns. SQL NULLs become empty cells.
func Query(ctx context.Context, db *sql.DB, q string, args ...any) (dataframe.DataFrame, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reading columns: %w", err)
	}

	records := make([][]string, len(cols))
	raw := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("scanning row: %w", err)
		}
		for i, v := range raw {
			records[i] = append(records[i], v.String)
		}
	}
	if err := rows.Err(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reading rows: %w", err)
	}

	cs := make([]series.Series, len(cols))
	for i, name := range cols {
		values := records[i]
		if values == nil {
			values = []string{}
		}
		cs[i] = series.New(values, series.String, name)
	}
	return dataframe.New(cs...), nil
}

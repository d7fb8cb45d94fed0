package sqlstore

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL driver. SQLite DSNs must be file paths; an
// in-memory database would not survive the separate migration connection.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case Postgres, MySQL, SQLite:
		return d, nil
	default:
		return "", errors.Errorf("unsupported sql dialect %q", s)
	}
}

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	return string(d)
}

// Connect opens and pings the database, then applies pending migrations.
func Connect(ctx context.Context, dialect Dialect, dsn string, log logrus.FieldLogger) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, dialect.driverName(), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if dialect == SQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	if err := Migrate(dialect, dsn); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	log.WithField("dialect", dialect).Info("Database connected and migrated")
	return db, nil
}

// Package migrate holds the `migrate` subcommands applying the sale schema migrations.
package migrate

import (
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

const (
	saleMigrationSource = "modules/sale/database/postgresql/migrations"
	saleMigrationTable  = "sale_schema_migrations"
)

var supportedDrivers = map[string]struct{}{
	"postgres":   {},
	"postgresql": {},
}

type options struct {
	DatabaseURL string
	Source      string
}

func (o *options) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.Source, "source", saleMigrationSource, "Path to the sale migrations directory")
	flags.StringVar(&o.DatabaseURL, "database", "", "Database URL to migrate. Default is the sale postgres url of the config")
}

// open returns a Migrate instance tracking the sale schema in its own migrations table.
func (o *options) open(out io.Writer) (*migrate.Migrate, error) {
	databaseURL, err := parseDatabaseURL(o.DatabaseURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	databaseURL = cloneURLWithQuery(databaseURL, url.Values{"x-migrations-table": {saleMigrationTable}})
	m, err := migrate.New("file://"+o.Source, databaseURL.String())
	if err != nil {
		return nil, errors.Wrap(err, "can't open migrations")
	}
	m.Log = &writerLogger{out: out}
	return m, nil
}

// run applies all migrations in direction when steps is 0, otherwise steps migrations.
func run(m *migrate.Migrate, up bool, steps int) error {
	var err error
	switch {
	case steps == 0 && up:
		m.Log.Printf("Applying all up migrations\n")
		err = m.Up()
	case steps == 0:
		m.Log.Printf("Applying all down migrations\n")
		err = m.Down()
	case up:
		m.Log.Printf("Applying %d up migrations\n", steps)
		err = m.Steps(steps)
	default:
		m.Log.Printf("Applying %d down migrations\n", steps)
		err = m.Steps(-steps)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		m.Log.Printf("No migrations to apply\n")
		return nil
	}
	return errors.Wrap(err, "can't apply migrations")
}

func cloneURLWithQuery(u *url.URL, newQuery url.Values) *url.URL {
	clone := *u
	query := clone.Query()
	for key, values := range newQuery {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	clone.RawQuery = query.Encode()
	return &clone
}

// parseDatabaseURL validates the --database flag, falling back to the sale Postgres URL of
// the config file.
func parseDatabaseURL(flag string) (*url.URL, error) {
	if flag == "" {
		flag = config.Load().Modules.Sale.Postgres.URL
	}
	if flag == "" {
		return nil, errors.New("--database is required")
	}
	databaseURL, err := url.Parse(flag)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse database URL")
	}
	if _, ok := supportedDrivers[databaseURL.Scheme]; !ok {
		return nil, errors.Errorf("unsupported database driver: %s", databaseURL.Scheme)
	}
	return databaseURL, nil
}

// parseSteps parses the optional [N] argument. 0 means all.
func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Wrap(err, "N must be an integer")
	}
	if n < 0 {
		return 0, errors.New("N must not be negative")
	}
	return n, nil
}

type writerLogger struct {
	out io.Writer
}

var _ migrate.Logger = (*writerLogger)(nil)

func (l *writerLogger) Printf(format string, v ...any) {
	fmt.Fprintf(l.out, "[sale] "+format, v...)
}

func (l *writerLogger) Verbose() bool {
	return false
}

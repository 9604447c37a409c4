package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type ContextKey string

const (
	DBContextURL ContextKey = "budget-tracker-url"
)

var pluralIES = regexp.MustCompile("ies$")

// IsPostgres reports if the DSN is meant for a PostgreSQL server.
// All other DSNs are treated as SQLite file paths.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.HasPrefix(dsn, "host=")
}

// Connect opens the database, migrates the schema and configures the connection pool.
func Connect(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: &logger{
			Logger: log.Logger,
		},
	}

	var dialector gorm.Dialector
	if IsPostgres(dsn) {
		log.Debug().Msg("using postgresql")
		dialector = postgres.Open(dsn)
	} else {
		log.Debug().Str("path", dsn).Msg("using sqlite")

		// Categories and expenses are removed by foreign key cascades,
		// SQLite only enforces them when asked to
		if !strings.Contains(dsn, "foreign_keys") {
			separator := "?"
			if strings.Contains(dsn, "?") {
				separator = "&"
			}
			dsn = fmt.Sprintf("%s%s_pragma=foreign_keys(1)", dsn, separator)
		}
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// SQLite allows a single writer. With one connection, every transaction
	// runs after the previous one committed and SQLITE_BUSY never occurs.
	if !IsPostgres(dsn) {
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
	}

	err = migrate(db)
	if err != nil {
		return nil, err
	}

	err = registerCallbacks(db)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func registerCallbacks(db *gorm.DB) error {
	// Query callbacks
	err := db.Callback().Query().After("*").Register("budget_tracker:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("budget_tracker:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	// Create callbacks
	err = db.Callback().Create().After("*").Register("budget_tracker:after_create", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("budget_tracker:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	// Update callbacks
	err = db.Callback().Update().After("*").Register("budget_tracker:after_update", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("budget_tracker:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	// Delete callbacks
	return db.Callback().Delete().After("*").Register("budget_tracker:after_delete_general", generalCallback)
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Replace pluralized "ies" with "y"
		name = pluralIES.ReplaceAllString(name, "y")

		// Remove plural "s"
		name = strings.TrimRight(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// SQLite reports this as text, PostgreSQL with SQLSTATE 23503
	var pgErr *pgconn.PgError
	if strings.Contains(db.Error.Error(), "FOREIGN KEY constraint failed") || (errors.As(db.Error, &pgErr) && pgErr.Code == "23503") {
		db.Error = ErrReferenceInvalid
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil || !isGeneral(db.Error) {
		return
	}

	// A general error where we cannot provide more useful information to the end user
	// We log the error and provide a general error message so that server admins can debug
	log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
	db.Error = ErrGeneral
}

// isGeneral reports if an error comes from the database or the connection to
// it rather than from the request.
func isGeneral(err error) bool {
	// "sql: database is closed" is hard-coded in the sql module, see
	// https://cs.opensource.google/go/go/+/master:src/database/sql/sql.go;l=1298;drc=0d018b49e33b1383dc0ae5cc968e800dffeeaf7d
	if err.Error() == "sql: database is closed" || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var sqliteErr *go_sqlite.Error
	if errors.As(err, &sqliteErr) {
		return true
	}

	// Foreign key violations have already been mapped by createUpdateCallback,
	// every other server error is one the user cannot fix
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) (err error) {
	err = db.AutoMigrate(Budget{}, Category{}, Expense{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}

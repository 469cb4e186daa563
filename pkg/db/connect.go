package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// OpenDBConnection opens the SQLite database at baseDSN, pings it, and turns
// on foreign key enforcement. enableWAL selects WAL journaling and syncPragma
// sets the synchronous pragma ("OFF", "NORMAL", "FULL" or "EXTRA"); both are
// passed to the driver as DSN parameters.
func OpenDBConnection(baseDSN string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	params := url.Values{}

	if enableWAL {
		params.Add("_journal_mode", "WAL")
	}

	if syncPragma != "" {
		mode := strings.ToUpper(syncPragma)
		if !validSyncModes[mode] {
			return nil, fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", syncPragma)
		}
		params.Add("_synchronous", mode)
	}

	dsn := baseDSN
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(baseDSN, "?") {
			sep = "&"
		}
		dsn += sep + params.Encode()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", dsn, err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", dsn, err)
	}

	// Foreign keys are off by default in SQLite; the cascades on the entry
	// and album tables depend on them.
	if _, err = db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign key support for DSN '%s': %w", dsn, err)
	}

	return db, nil
}

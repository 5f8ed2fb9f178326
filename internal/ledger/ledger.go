// Package ledger records merge runs in a SQL database for auditing and export.
package ledger

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/schema"
)

// LedgerStoreManager holds the active LedgerStore.
type LedgerStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.LedgerStore
}

var _ contract.LedgerManager = &LedgerStoreManager{} // Compile-time check

// GetLedgerStore returns the active LedgerStore, or nil before InitLedger.
func (mgr *LedgerStoreManager) GetLedgerStore() contract.LedgerStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// Global Manager instance for main logic.
var (
	Manager   = &LedgerStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitLedger initializes the global ledger manager.
// An empty backend is treated as the none backend.
func InitLedger(backend schema.DatabaseBackend, connStr string) error {
	var initErr error
	initOnce.Do(func() {
		store, err := NewLedgerStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize ledger: %w", err)
			return
		}
		Manager.Lock()
		Manager.store = store
		Manager.Unlock()
	})
	return initErr
}

// CloseLedger should be called on application shutdown.
func CloseLedger() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ClearLedger removes all ledger data for the backend.
// For SQLite, it deletes the database file.
// For MySQL/PostgreSQL, it drops the ledger and migration tables.
// For the none backend, it does nothing.
func ClearLedger(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return errors.New("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		for _, table := range []string{ingestEntriesTable, ingestRunsTable, migrationsTable} {
			if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}
		return nil

	case schema.NoneBackend, "":
		return nil

	default:
		return fmt.Errorf("unsupported ledger backend for clearing: %s", backend)
	}
}

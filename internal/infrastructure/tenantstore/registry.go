// Package tenantstore maps authenticated users to isolated SQLite stores,
// provisioning each store lazily on first access and caching open handles
// for the lifetime of the process.
package tenantstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"github.com/veldran/kingdom-manager/internal/platform/cache"
	"github.com/veldran/kingdom-manager/internal/platform/logging"
	"github.com/veldran/kingdom-manager/internal/usecase"
)

const sharedStoreFile = "main.db"

// Registry resolves user identities to live store handles. The shared
// store holds accounts, tenant mappings and feedback; every other entity
// lives in a per-user store named user_<id>.
type Registry struct {
	dataDir string
	shared  *sqlx.DB
	handles *cache.Store
	logger  *logging.Logger
}

// Open connects the shared store under dataDir, creating the directory
// and shared schema when absent.
func Open(ctx context.Context, dataDir string, logger *logging.Logger) (*Registry, error) {
	if dataDir == "" {
		return nil, errors.New("data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}

	shared, err := openStore(filepath.Join(dataDir, sharedStoreFile))
	if err != nil {
		return nil, errors.Wrap(err, "open shared store")
	}
	if err := ProvisionShared(ctx, shared); err != nil {
		_ = shared.Close()
		return nil, errors.Wrap(err, "provision shared store")
	}

	return &Registry{
		dataDir: dataDir,
		shared:  shared,
		handles: cache.NewStore(0),
		logger:  logger,
	}, nil
}

// Shared returns the shared store handle.
func (r *Registry) Shared() *sqlx.DB {
	return r.shared
}

// DataDir returns the directory holding every store file.
func (r *Registry) DataDir() string {
	return r.dataDir
}

// Tenant returns the open handle for the user's isolated store. First
// access for a user inserts the mapping row, opens the store file and
// provisions the schema; concurrent first accesses collapse into one
// provisioning run. A provisioning failure rolls the mapping row back so
// a later request retries from scratch.
func (r *Registry) Tenant(ctx context.Context, userID int64) (*sqlx.DB, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", usecase.ErrInvalidInput)
	}

	key := handleKey(userID)
	value, err := r.handles.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.openTenant(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	db, ok := value.(*sqlx.DB)
	if !ok {
		return nil, errors.Newf("unexpected handle type %T for %s", value, key)
	}

	return db, nil
}

// Ensure provisions the user's store without handing the handle back.
// Used at registration so the first login finds a ready store.
func (r *Registry) Ensure(ctx context.Context, userID int64) error {
	_, err := r.Tenant(ctx, userID)
	return err
}

// RemoveMapping deletes the user's mapping row and closes the cached
// handle. The store file stays on disk; account deletion does not destroy
// tenant data.
func (r *Registry) RemoveMapping(ctx context.Context, userID int64) error {
	if _, err := r.shared.ExecContext(ctx,
		`DELETE FROM user_databases WHERE user_id = ?`, userID,
	); err != nil {
		return errors.Wrap(err, "delete tenant mapping")
	}

	key := handleKey(userID)
	if value, ok := r.handles.Get(ctx, key); ok {
		r.handles.Delete(ctx, key)
		if db, ok := value.(*sqlx.DB); ok {
			if err := db.Close(); err != nil {
				r.logger.WarnContext(ctx, "tenant handle close failed", "user_id", userID, "error", err)
			}
		}
	}

	return nil
}

// Close releases every cached tenant handle and the shared store.
func (r *Registry) Close(ctx context.Context) error {
	r.handles.Range(ctx, func(key string, value any) {
		r.handles.Delete(ctx, key)
		if db, ok := value.(*sqlx.DB); ok {
			if err := db.Close(); err != nil {
				r.logger.WarnContext(ctx, "tenant handle close failed", "key", key, "error", err)
			}
		}
	})

	return r.shared.Close()
}

func (r *Registry) openTenant(ctx context.Context, userID int64) (*sqlx.DB, error) {
	name, found, err := r.mappingName(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "look up tenant mapping")
	}

	inserted := false
	if !found {
		name = fmt.Sprintf("user_%d", userID)
		if _, err := r.shared.ExecContext(ctx,
			`INSERT INTO user_databases (user_id, database_name) VALUES (?, ?)`, userID, name,
		); err != nil {
			return nil, errors.Wrap(err, "insert tenant mapping")
		}
		inserted = true
	}

	db, err := openStore(r.storePath(name))
	if err != nil {
		if inserted {
			r.rollbackMapping(ctx, userID)
		}
		return nil, errors.Mark(errors.Wrap(err, "open tenant store"), usecase.ErrProvisioning)
	}

	// Runs on every first open in this process, not only brand-new
	// stores: the mapping row may predate this process while the schema
	// lags behind. Provisioning is idempotent.
	if err := ProvisionTenant(ctx, db, r.logger); err != nil {
		_ = db.Close()
		if inserted {
			r.rollbackMapping(ctx, userID)
		}
		return nil, errors.Mark(errors.Wrap(err, "provision tenant store"), usecase.ErrProvisioning)
	}

	r.logger.InfoContext(ctx, "tenant store ready", "user_id", userID, "database", name)

	return db, nil
}

func (r *Registry) mappingName(ctx context.Context, userID int64) (string, bool, error) {
	var name string
	err := r.shared.GetContext(ctx, &name,
		`SELECT database_name FROM user_databases WHERE user_id = ?`, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return name, true, nil
}

func (r *Registry) rollbackMapping(ctx context.Context, userID int64) {
	if _, err := r.shared.ExecContext(ctx,
		`DELETE FROM user_databases WHERE user_id = ?`, userID,
	); err != nil {
		r.logger.ErrorContext(ctx, "tenant mapping rollback failed", "user_id", userID, "error", err)
	}
}

func (r *Registry) storePath(name string) string {
	return filepath.Join(r.dataDir, name+".db")
}

func handleKey(userID int64) string {
	return fmt.Sprintf("tenant:%d", userID)
}

func openStore(path string) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("sqlite", path,
		otelsql.WithAttributes(attribute.String("db.system", "sqlite")),
		otelsql.WithDBName(filepath.Base(path)),
	)
	if err != nil {
		return nil, err
	}

	// The pure-Go driver serializes writers per connection; one
	// connection per store keeps statement order deterministic.
	db.SetMaxOpenConns(1)

	return db, nil
}

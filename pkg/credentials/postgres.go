package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/ikas-actions/pkg/persistence/sqlbase"

	_ "github.com/lib/pq"
)

const credentialMigrationsTable = "credential_schema_migrations"

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore connects to databaseURL, runs the credential migrations
// and returns the store.
func NewPostgresStore(ctx context.Context, logger *slog.Logger, databaseURL string) (*PostgresStore, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewPostgresStoreWithDB(database, logger)

	err = store.Migrate(ctx)
	if err != nil {
		_ = database.Close()

		return nil, err
	}

	logger.InfoContext(ctx, "Credential PostgreSQL store initialized successfully")

	return store, nil
}

// NewPostgresStoreWithDB wraps an open database without running migrations.
func NewPostgresStoreWithDB(db *sql.DB, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger.With("component", "credential_postgres_store"),
	}
}

// Migrate brings the credential schema up to date.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	manager := sqlbase.NewMigrationManager(p.logger, p.db, credentialMigrationsTable, credentialMigrations())

	err := manager.RunMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to run credential migrations: %w", err)
	}

	return nil
}

// Get retrieves a credential by authorized app ID.
func (p *PostgresStore) Get(ctx context.Context, authorizedAppID string) (*Credential, error) {
	query := `
		SELECT authorized_app_id, merchant_id, access_token, token_type, created_at, updated_at
		FROM app_credentials
		WHERE authorized_app_id = $1
	`

	credential := &Credential{}

	err := p.db.QueryRowContext(ctx, query, authorizedAppID).Scan(
		&credential.AuthorizedAppID,
		&credential.MerchantID,
		&credential.AccessToken,
		&credential.TokenType,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		p.logger.ErrorContext(ctx, "Failed to scan credential", "authorized_app_id", authorizedAppID, "error", err)

		return nil, fmt.Errorf("failed to scan credential: %w", err)
	}

	return credential, nil
}

// Save inserts or updates a credential.
func (p *PostgresStore) Save(ctx context.Context, credential *Credential) error {
	if err := credential.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO app_credentials (
			authorized_app_id, merchant_id, access_token, token_type, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (authorized_app_id)
		DO UPDATE SET
			merchant_id = EXCLUDED.merchant_id,
			access_token = EXCLUDED.access_token,
			token_type = EXCLUDED.token_type,
			updated_at = EXCLUDED.updated_at
	`

	credential.touch(time.Now().UTC())

	_, err := p.db.ExecContext(ctx, query,
		credential.AuthorizedAppID,
		credential.MerchantID,
		credential.AccessToken,
		credential.TokenType,
		credential.CreatedAt,
		credential.UpdatedAt,
	)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to save credential", "authorized_app_id", credential.AuthorizedAppID, "error", err)

		return fmt.Errorf("failed to save credential: %w", err)
	}

	p.logger.DebugContext(ctx, "Credential saved successfully", "authorized_app_id", credential.AuthorizedAppID)

	return nil
}

// Delete removes a credential.
func (p *PostgresStore) Delete(ctx context.Context, authorizedAppID string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM app_credentials WHERE authorized_app_id = $1`, authorizedAppID)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to delete credential", "authorized_app_id", authorizedAppID, "error", err)

		return fmt.Errorf("failed to delete credential: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *PostgresStore) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (p *PostgresStore) Close() error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

func credentialMigrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE app_credentials (
				authorized_app_id VARCHAR(255) PRIMARY KEY,
				merchant_id VARCHAR(255) NOT NULL,
				access_token TEXT NOT NULL,
				token_type VARCHAR(64) NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_app_credentials_merchant_id ON app_credentials(merchant_id);
		`,
	}
}

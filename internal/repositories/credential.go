package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// Credential is the persisted OAuth session state.
//
// RefreshToken and PKCEVerifier may be empty: the refresh token is optional on
// a refresh-grant response, and the verifier only exists between beginning a
// login and redeeming the authorization code.
type Credential struct {
	AccessToken  string
	RefreshToken string
	IssuedAt     time.Time
	PKCEVerifier string
}

// CredentialRepository persists a single [Credential] row in SQLite.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Migrate creates the credentials table if it does not exist.
func (r *CredentialRepository) Migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS credentials (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			access_token TEXT NOT NULL DEFAULT '',
			refresh_token TEXT NOT NULL DEFAULT '',
			issued_at INTEGER NOT NULL DEFAULT 0,
			pkce_verifier TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL DEFAULT 0
		)
	`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create credentials table: %w", err)
	}

	return nil
}

// Load retrieves the stored credential.
//
// Returns (nil, nil) when nothing is stored.
func (r *CredentialRepository) Load() (*Credential, error) {
	query := `
		SELECT access_token, refresh_token, issued_at, pkce_verifier
		FROM credentials
		WHERE id = 1
	`

	var (
		accessToken  string
		refreshToken string
		issuedAt     int64
		verifier     string
	)

	err := r.db.QueryRow(query).Scan(&accessToken, &refreshToken, &issuedAt, &verifier)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}

	cred := &Credential{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		PKCEVerifier: verifier,
	}
	if issuedAt > 0 {
		cred.IssuedAt = time.Unix(issuedAt, 0)
	}

	return cred, nil
}

// Save overwrites the stored credential wholesale.
func (r *CredentialRepository) Save(cred *Credential) error {
	var issuedAt int64
	if !cred.IssuedAt.IsZero() {
		issuedAt = cred.IssuedAt.Unix()
	}

	query := `
		INSERT INTO credentials (id, access_token, refresh_token, issued_at, pkce_verifier, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			issued_at = excluded.issued_at,
			pkce_verifier = excluded.pkce_verifier,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, cred.AccessToken, cred.RefreshToken, issuedAt, cred.PKCEVerifier, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}

// Clear removes the stored credential.
func (r *CredentialRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM credentials WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"git.sr.ht/~jakintosh/grant/internal/service"
	"git.sr.ht/~jakintosh/grant/internal/tokens"
	"golang.org/x/crypto/bcrypt"
)

func (s *SQLiteStore) IdentityStore() service.IdentityStore {
	return s
}

// InsertIdentity hashes the password and stores a new account with its
// entitled scopes. Scope elements must not contain spaces: the stored form
// is space-joined and must round-trip losslessly.
func (s *SQLiteStore) InsertIdentity(
	handle string,
	password string,
	scopes []string,
) error {
	for _, scope := range scopes {
		if scope == "" || strings.Contains(scope, " ") {
			return fmt.Errorf("invalid scope element: '%s'", scope)
		}
	}

	secret, err := bcrypt.GenerateFromPassword([]byte(password), s.mode.Cost())
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO identity (handle, secret, scopes)
		VALUES (?1, ?2, ?3);`,
		handle,
		secret,
		tokens.JoinScope(scopes),
	)
	if err != nil {
		return fmt.Errorf("couldn't insert into identity: %v", err)
	}
	return nil
}

// VerifyCredentials implements service.IdentityStore. It distinguishes an
// unknown handle from a failed password check so the server can log the
// real reason; the transport layer is responsible for collapsing both into
// one wire error.
func (s *SQLiteStore) VerifyCredentials(
	username string,
	password string,
) (
	*service.Identity,
	error,
) {
	row := s.db.QueryRow(`
		SELECT secret, scopes
		FROM identity i
		WHERE i.handle=?1;`,
		username,
	)

	var secret []byte
	var scopes string
	if err := row.Scan(&secret, &scopes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", service.ErrAccountNotFound, username)
		}
		return nil, fmt.Errorf("couldn't scan identity: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword(secret, []byte(password)); err != nil {
		return nil, service.ErrInvalidCredentials
	}

	return &service.Identity{
		Subject: username,
		Scopes:  tokens.SplitScope(scopes),
	}, nil
}

// Package repomanager defines the factory contract that vends repository
// implementations bound to a database handle or transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/identitykeeper/internal/dbx"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/books"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/configs"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to the provided DBTX, so the
// same repository code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	// RunMigrations brings the database schema up to date.
	RunMigrations(ctx context.Context, db *sql.DB) error

	// Users returns a users.Repository bound to db.
	Users(db dbx.DBTX) users.Repository

	// RefreshTokens returns a refreshtokens.Repository bound to db.
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository

	// Books returns a books.Repository bound to db.
	Books(db dbx.DBTX) books.Repository

	// Configs returns a configs.Repository bound to db.
	Configs(db dbx.DBTX) configs.Repository
}

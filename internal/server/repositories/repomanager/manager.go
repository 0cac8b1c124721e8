package repomanager

import (
	"context"
	"database/sql"

	"github.com/kartyapp/authcore/internal/dbx"
	"github.com/kartyapp/authcore/internal/server/repositories/resettokens"
	"github.com/kartyapp/authcore/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX and
// exposes the schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
}

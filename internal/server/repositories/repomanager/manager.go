package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/piiquante/internal/dbx"
	"github.com/dmitrijs2005/piiquante/internal/server/repositories/sauces"
	"github.com/dmitrijs2005/piiquante/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can run the same code in both.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sauces(db dbx.DBTX) sauces.Repository
}

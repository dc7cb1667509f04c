package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/expertprofile/internal/dbx"
	"github.com/dmitrijs2005/expertprofile/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/expertprofile/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so services can
// use the same code path inside and outside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}

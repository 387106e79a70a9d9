package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/pivault/internal/dbx"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/auditlog"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/categories"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/entries"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/loginattempts"
	"github.com/dmitrijs2005/pivault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Categories(db dbx.DBTX) categories.Repository
	Entries(db dbx.DBTX) entries.Repository
	LoginAttempts(db dbx.DBTX) loginattempts.Repository
	AuditLog(db dbx.DBTX) auditlog.Repository
}

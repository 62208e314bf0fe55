package container

import (
	"database/sql"

	"hangar/internal/catalog"
	"hangar/internal/ledger"
	"hangar/internal/repository"
	"hangar/internal/users"
	"hangar/internal/weather"
	"hangar/pkg/auditlog"
	"hangar/pkg/security"
)

type Container struct {
	Repository    *repository.Repository
	AuditLog      *auditlog.Auditlog
	LoginHandler  *security.LoginHandler
	AssetHandler  *catalog.AssetHandler
	LedgerHandler *ledger.LedgerHandler
	UserHandler   *users.UsersHandler
}

func NewAppContainer(db *sql.DB, gateway weather.Gateway) *Container {
	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo)

	assetsRepo := catalog.NewAssetsRepository(repo)
	assetService := catalog.NewAssetService(assetsRepo, auditLog)
	assetHandler := catalog.NewAssetHandler(assetService)

	ledgerRepo := ledger.NewLedgerRepository(repo)
	ledgerService := ledger.NewLedgerService(ledgerRepo, assetsRepo, gateway, auditLog)
	ledgerHandler := ledger.NewLedgerHandler(ledgerService)

	userRepo := users.NewRepository(repo)
	userHandler := users.NewHandler(userRepo)
	loginHandler := security.NewLoginHandler(repo)

	return &Container{
		Repository:    repo,
		AuditLog:      auditLog,
		LoginHandler:  loginHandler,
		AssetHandler:  assetHandler,
		LedgerHandler: ledgerHandler,
		UserHandler:   userHandler,
	}
}

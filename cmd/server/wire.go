// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"database/sql"

	"credential_service_backend/internal/account"
	"credential_service_backend/internal/app"
	"credential_service_backend/internal/auth"
	"credential_service_backend/internal/config"
	"credential_service_backend/internal/jobs"
	"credential_service_backend/internal/platform/crypto"
	"credential_service_backend/internal/shared"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		provideLogger,
		provideDatabase,
		provideSQLDB,
		wire.Bind(new(jobs.StatsSource), new(*sql.DB)),

		// Credentials
		crypto.NewBcryptHasher,
		wire.Bind(new(crypto.PasswordHasher), new(*crypto.BcryptHasher)),
		auth.NewJWTService,
		wire.Bind(new(shared.TokenIssuer), new(*auth.JWTService)),

		// Accounts
		account.NewGORMStore,
		account.NewService,
		wire.Bind(new(account.Service), new(*account.ServiceImplementation)),
		wire.Bind(new(auth.FederatedAccountProvider), new(*account.ServiceImplementation)),
		account.NewHandler,

		// OAuth
		auth.NewProviders,
		auth.NewHandler,

		// Jobs
		jobs.NewPoolMonitorJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}

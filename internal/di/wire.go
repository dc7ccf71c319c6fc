//go:build wireinject
// +build wireinject

package di

import (
	"RegimeGate/pkg/config"
	"RegimeGate/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Domain services
		ProvideClassifier,
		ProvideGate,

		// Infrastructure
		ProvideCache,
		ProvideProducer,

		// Use cases
		ProvideRegimeUseCase,

		// HTTP
		ProvideHandler,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}

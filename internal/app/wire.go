//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/ian97531/boombox/internal/app/metrics"
	"github.com/ian97531/boombox/internal/app/normalize"
	"github.com/ian97531/boombox/internal/app/pipeline"
	"github.com/ian97531/boombox/internal/app/repository"
)

var baseSet = wire.NewSet(provideConfig, provideLogger)

// InitializeApplication builds every component of the pipeline from the config at path.
func InitializeApplication(path ConfigPath) (*Application, func(), error) {
	wire.Build(
		baseSet,
		provideObjectStore,
		provideEpisodeDAO,
		provideGate,
		provideEngineOptions,
		metrics.New,
		normalize.NewRegistry,
		pipeline.NewProcessor,
		NewApplication,
	)
	return nil, nil, nil
}

// InitializeRepository opens only the episode repository, for commands that read stored results.
func InitializeRepository(path ConfigPath) (repository.EpisodeDAO, func(), error) {
	wire.Build(baseSet, provideEpisodeDAO)
	return nil, nil, nil
}

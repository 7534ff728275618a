// Package testutil provides fixtures and fakes shared by the package tests.
//
// Fixtures (fixtures.go) describe a synthetic episode as a list of words and render it
// as overlapping segments of raw AWS Transcribe and IBM Watson output, so pipeline,
// workflow and API tests can run every stage against an in-memory object store.
//
// MockEpisodeDAO (mock_episode_dao.go) is an in-memory repository.EpisodeDAO with
// per-method error injection and call tracking.
package testutil

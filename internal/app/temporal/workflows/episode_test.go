package workflows_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/ian97531/boombox/internal/app/gate"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/normalize"
	"github.com/ian97531/boombox/internal/app/pipeline"
	"github.com/ian97531/boombox/internal/app/storage"
	"github.com/ian97531/boombox/internal/app/temporal/activities"
	"github.com/ian97531/boombox/internal/app/temporal/worker"
	"github.com/ian97531/boombox/internal/app/temporal/workflows"
	"github.com/ian97531/boombox/internal/app/testutil"
	"github.com/ian97531/boombox/internal/app/transcript"
)

type EpisodeWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env   *testsuite.TestWorkflowEnvironment
	store *storage.MemoryStore
	dao   *testutil.MockEpisodeDAO
	keys  map[string][]string
}

func (s *EpisodeWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.store = storage.NewMemoryStore()
	s.dao = testutil.NewMockEpisodeDAO()

	segments := testutil.SplitSegments(testutil.EpisodeWords(65), 40, 25)
	s.keys = testutil.SeedRawSegments(s.T(), s.store, testutil.TestEpisode, segments, pipeline.RawKey)

	g := gate.NewMemoryGate(pipeline.Providers)
	processor := pipeline.NewProcessor(s.store, normalize.NewRegistry(), s.dao, g, nil,
		transcript.DefaultOptions(), nil)
	worker.Register(s.env, activities.NewEpisodeActivities(processor, g))
}

func (s *EpisodeWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *EpisodeWorkflowTestSuite) TestProcessesEpisode() {
	s.env.ExecuteWorkflow(workflows.EpisodeWorkflow, workflows.EpisodeWorkflowRequest{
		Episode:  testutil.TestEpisode,
		Title:    "H.I. #100",
		Segments: s.keys,
	})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result workflows.EpisodeWorkflowResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal("hello-internet_1530000000", result.EpisodeKey)
	s.Equal(65, result.Items)
	s.Equal(13, result.Statements)
	s.Empty(result.Error)

	episode, err := s.dao.GetEpisode(context.Background(), testutil.TestEpisode.Key())
	s.Require().NoError(err)
	s.Equal(model.StatusComplete, episode.Status)
	s.Equal("H.I. #100", episode.Title)
}

func (s *EpisodeWorkflowTestSuite) TestDataErrorsAreNotRetried() {
	bad := s.keys[model.ProviderAWS][0]
	s.Require().NoError(s.store.Put(context.Background(), pipeline.RawKey(model.ProviderAWS, bad), []byte("{"), "application/json"))

	s.env.ExecuteWorkflow(workflows.EpisodeWorkflow, workflows.EpisodeWorkflowRequest{
		Episode:  testutil.TestEpisode,
		Segments: s.keys,
	})

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Require().Error(err)

	var appErr *temporal.ApplicationError
	s.Require().True(errors.As(err, &appErr))
	s.Equal(activities.DataErrorType, appErr.Type())

	episode, getErr := s.dao.GetEpisode(context.Background(), testutil.TestEpisode.Key())
	s.Require().NoError(getErr)
	s.Equal(model.StatusFailed, episode.Status)
}

func (s *EpisodeWorkflowTestSuite) TestRejectsMissingProvider() {
	s.env.ExecuteWorkflow(workflows.EpisodeWorkflow, workflows.EpisodeWorkflowRequest{
		Episode:  testutil.TestEpisode,
		Segments: map[string][]string{model.ProviderAWS: s.keys[model.ProviderAWS]},
	})

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
	s.Equal(0, s.dao.Calls("SaveEpisode"))
}

func TestEpisodeWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(EpisodeWorkflowTestSuite))
}

func TestWorkflowID(t *testing.T) {
	assert.Equal(t, "episode-hello-internet_1530000000", workflows.WorkflowID(testutil.TestEpisode))
}

func TestEpisodeWorkflowWithMockedActivities(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	acts := &activities.EpisodeActivities{}
	worker.Register(env, acts)

	env.OnActivity(acts.RegisterEpisode, mock.Anything, mock.Anything).Return(nil)
	env.OnActivity(acts.NormalizeSegment, mock.Anything, mock.Anything).Return(activities.SegmentResult{Words: 3, Complete: true}, nil)
	env.OnActivity(acts.StitchProvider, mock.Anything, mock.Anything).Return(activities.StitchResult{Items: 3, Ready: true}, nil)
	env.OnActivity(acts.MergeProviders, mock.Anything, mock.Anything).Return(3, nil)
	env.OnActivity(acts.InsertStatements, mock.Anything, mock.Anything).Return(0, errors.New("database is locked"))
	env.OnActivity(acts.MarkEpisodeFailed, mock.Anything, mock.Anything).Return(nil).Once()

	env.ExecuteWorkflow(workflows.EpisodeWorkflow, workflows.EpisodeWorkflowRequest{
		Episode: testutil.TestEpisode,
		Segments: map[string][]string{
			model.ProviderAWS:    {"a/1_b/0.json"},
			model.ProviderWatson: {"a/1_b/0.json"},
		},
		MaxAttempts: 1,
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	env.AssertExpectations(t)
}

package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/repository"
)

// MockEpisodeDAO is an in-memory implementation of repository.EpisodeDAO.
type MockEpisodeDAO struct {
	mu sync.RWMutex

	episodes   map[string]model.Episode
	statements map[string][]model.Statement

	// ErrorMap makes the named method fail with the given error.
	ErrorMap map[string]error

	CallHistory []string
	Closed      bool
}

var _ repository.EpisodeDAO = (*MockEpisodeDAO)(nil)

func NewMockEpisodeDAO() *MockEpisodeDAO {
	return &MockEpisodeDAO{
		episodes:   make(map[string]model.Episode),
		statements: make(map[string][]model.Statement),
		ErrorMap:   make(map[string]error),
	}
}

// call records method and returns its injected error. Callers hold mu.
func (m *MockEpisodeDAO) call(method string) error {
	m.CallHistory = append(m.CallHistory, method)
	return m.ErrorMap[method]
}

// SetError makes method fail with err until cleared with a nil err.
func (m *MockEpisodeDAO) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.ErrorMap, method)
		return
	}
	m.ErrorMap[method] = err
}

// Calls returns how many times method was called.
func (m *MockEpisodeDAO) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.CallHistory {
		if c == method {
			n++
		}
	}
	return n
}

func (m *MockEpisodeDAO) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("Close"); err != nil {
		return err
	}
	m.Closed = true
	return nil
}

func (m *MockEpisodeDAO) Migrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.call("Migrate")
}

func (m *MockEpisodeDAO) SaveEpisode(ctx context.Context, episode model.Episode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("SaveEpisode"); err != nil {
		return err
	}

	now := time.Now()
	key := episode.Ref.Key()
	if existing, ok := m.episodes[key]; ok {
		episode.CreatedAt = existing.CreatedAt
	} else {
		episode.CreatedAt = now
	}
	episode.UpdatedAt = now
	m.episodes[key] = episode
	return nil
}

func (m *MockEpisodeDAO) GetEpisode(ctx context.Context, episodeKey string) (*model.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetEpisode"); err != nil {
		return nil, err
	}

	episode, ok := m.episodes[episodeKey]
	if !ok {
		return nil, apperrors.NotFound("episode", episodeKey)
	}
	return &episode, nil
}

func (m *MockEpisodeDAO) ListEpisodes(ctx context.Context, podcastSlug string, limit int) ([]model.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("ListEpisodes"); err != nil {
		return nil, err
	}

	var episodes []model.Episode
	for _, e := range m.episodes {
		if podcastSlug == "" || e.Ref.PodcastSlug == podcastSlug {
			episodes = append(episodes, e)
		}
	}
	sort.Slice(episodes, func(i, j int) bool {
		return episodes[i].Ref.PublishTimestamp > episodes[j].Ref.PublishTimestamp
	})
	if limit > 0 && len(episodes) > limit {
		episodes = episodes[:limit]
	}
	return episodes, nil
}

func (m *MockEpisodeDAO) UpdateStatus(ctx context.Context, episodeKey, status, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("UpdateStatus"); err != nil {
		return err
	}

	episode, ok := m.episodes[episodeKey]
	if !ok {
		return apperrors.NotFound("episode", episodeKey)
	}
	episode.Status = status
	episode.ErrorMessage = errorMessage
	episode.UpdatedAt = time.Now()
	m.episodes[episodeKey] = episode
	return nil
}

func (m *MockEpisodeDAO) ReplaceStatements(ctx context.Context, episodeKey string, statements []model.Statement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("ReplaceStatements"); err != nil {
		return err
	}

	stored := make([]model.Statement, len(statements))
	for i, s := range statements {
		s.EpisodeKey = episodeKey
		stored[i] = s
	}
	m.statements[episodeKey] = stored
	return nil
}

func (m *MockEpisodeDAO) GetStatements(ctx context.Context, episodeKey string, startTime float64, limit int) ([]model.Statement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetStatements"); err != nil {
		return nil, err
	}

	statements := make([]model.Statement, 0)
	for _, s := range m.statements[episodeKey] {
		if s.EndTime >= startTime {
			statements = append(statements, s)
		}
		if limit > 0 && len(statements) == limit {
			break
		}
	}
	return statements, nil
}

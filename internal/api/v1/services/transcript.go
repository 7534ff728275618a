package services

import (
	"context"
	"time"

	"github.com/ian97531/boombox/internal/api/v1/dto"
	"github.com/ian97531/boombox/internal/app/metrics"
	"github.com/ian97531/boombox/internal/app/normalize"
	"github.com/ian97531/boombox/internal/app/statement"
	"github.com/ian97531/boombox/internal/app/transcript"
)

// TranscriptServiceImpl implements TranscriptService on the in-process algorithms
type TranscriptServiceImpl struct {
	normalizers *normalize.Registry
	metrics     *metrics.Metrics
	opts        transcript.Options
}

// NewTranscriptService creates a new transcript service. opts is the tuning used when a
// request does not override it.
func NewTranscriptService(normalizers *normalize.Registry, m *metrics.Metrics, opts transcript.Options) TranscriptService {
	return &TranscriptServiceImpl{
		normalizers: normalizers,
		metrics:     m,
		opts:        opts,
	}
}

// Normalize converts one raw provider payload
func (s *TranscriptServiceImpl) Normalize(ctx context.Context, provider string, payload []byte) (resp *dto.NormalizeResponse, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe(metrics.OpNormalize, provider, started, len(respItems(resp)), err)
	}()

	normalizer, err := s.normalizers.Get(provider)
	if err != nil {
		return nil, err
	}
	result, err := normalizer.Normalize(payload)
	if err != nil {
		return nil, err
	}

	items := result.Items
	if items == nil {
		items = []transcript.Item{}
	}
	return &dto.NormalizeResponse{Provider: provider, Items: items, Stats: result.Stats}, nil
}

// Merge combines two transcripts of the same audio
func (s *TranscriptServiceImpl) Merge(ctx context.Context, req *dto.MergeRequest) (resp *dto.TranscriptResponse, err error) {
	started := time.Now()
	defer func() {
		count := 0
		if resp != nil {
			count = resp.Count
		}
		s.metrics.Observe(metrics.OpMerge, "", started, count, err)
	}()

	opts, err := req.Options.Resolve(s.opts)
	if err != nil {
		return nil, err
	}

	merged, err := transcript.Merge(transcript.New(req.Left, 0), transcript.New(req.Right, 0), opts)
	if err != nil {
		return nil, err
	}
	out := dto.NewTranscriptResponse(merged)
	return &out, nil
}

// Stitch joins overlapping segments into one transcript
func (s *TranscriptServiceImpl) Stitch(ctx context.Context, req *dto.StitchRequest) (resp *dto.StitchResponse, err error) {
	started := time.Now()
	defer func() {
		count := 0
		if resp != nil {
			count = resp.Count
		}
		s.metrics.Observe(metrics.OpStitch, "", started, count, err)
	}()

	opts, err := req.Options.Resolve(s.opts)
	if err != nil {
		return nil, err
	}

	segments := make([]*transcript.Transcript, len(req.Segments))
	for i, segment := range req.Segments {
		segments[i] = transcript.New(segment.Items, segment.Offset)
	}

	stitched, seams, err := transcript.StitchSeams(segments, opts)
	if err != nil {
		return nil, err
	}
	if seams == nil {
		seams = []transcript.Seam{}
	}
	return &dto.StitchResponse{TranscriptResponse: dto.NewTranscriptResponse(stitched), Seams: seams}, nil
}

// Statements groups a transcript into speaker statements without storing them
func (s *TranscriptServiceImpl) Statements(ctx context.Context, req *dto.StatementsRequest) (*dto.StatementsResponse, error) {
	started := time.Now()
	statements := statement.Build(req.EpisodeKey, req.Items)
	s.metrics.Observe(metrics.OpStatements, "", started, len(statements), nil)

	resp := dto.NewStatementsResponse(statements)
	return &resp, nil
}

func respItems(resp *dto.NormalizeResponse) []transcript.Item {
	if resp == nil {
		return nil
	}
	return resp.Items
}

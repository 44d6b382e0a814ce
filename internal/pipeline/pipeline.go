// Package pipeline runs the aggregation-and-composition flow that turns a
// customer's historical records into a stored next-action recommendation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tavanbogd/nextaction/internal/dataset"
	"github.com/tavanbogd/nextaction/internal/digest"
	"github.com/tavanbogd/nextaction/internal/llm"
	"github.com/tavanbogd/nextaction/internal/observability"
	"github.com/tavanbogd/nextaction/internal/prompt"
	"github.com/tavanbogd/nextaction/internal/store"
)

// ErrNoData reports that every dataset yielded zero records for the customer.
// It does not distinguish an unknown customer from unreadable sources.
var ErrNoData = errors.New("no data found for customer")

const systemInstruction = "You are a helpful assistant for debt collection."

// Service wires the dataset registry, digest, prompt, generative client and
// recommendation store into one request-scoped flow. It holds no per-request
// state; every call builds its context fresh and discards it.
type Service struct {
	registry   []dataset.Spec
	dataDir    string
	promptPath string
	client     llm.Client
	store      store.Store
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func New(dataDir, promptPath string, client llm.Client, st store.Store, metrics *observability.Metrics, logger *zap.Logger) *Service {
	return &Service{
		registry:   dataset.Registry(),
		dataDir:    dataDir,
		promptPath: promptPath,
		client:     client,
		store:      st,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// NextAction aggregates the customer's records, composes the prompt, asks
// the generative service for a recommendation and persists the result.
// Per-dataset read failures are tolerated; everything after the existence
// gate is fatal for the request.
func (s *Service) NextAction(ctx context.Context, customerID, empID string) (store.Recommendation, error) {
	agg := s.aggregate(customerID)
	if agg.Empty() {
		return store.Recommendation{}, ErrNoData
	}

	promptText, err := prompt.Compose(s.promptPath, digest.Build(agg))
	if err != nil {
		return store.Recommendation{}, err
	}

	start := s.now()
	text, err := s.client.Complete(ctx, llm.Request{
		SystemPrompt: systemInstruction,
		UserPrompt:   promptText,
	})
	s.metrics.ObserveLLMLatency(time.Since(start))
	if err != nil {
		return store.Recommendation{}, fmt.Errorf("generate recommendation: %w", err)
	}

	rec := store.Recommendation{
		CustomerID: customerID,
		EmpID:      empID,
		Response:   text,
		Created:    s.now().Format(store.CreatedLayout),
	}
	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		return store.Recommendation{}, fmt.Errorf("persist recommendation: %w", err)
	}
	s.metrics.RecommendationsStored.Inc()
	return saved, nil
}

// ListByEmployee returns the stored recommendations requested by empID,
// most recent first.
func (s *Service) ListByEmployee(ctx context.Context, empID string) ([]store.Recommendation, error) {
	s.metrics.EmployeeQueries.Inc()
	return s.store.ListByEmployee(ctx, empID)
}

// aggregate loads every registry dataset, folding read failures into empty
// sequences. The result keeps registry order with one entry per dataset.
func (s *Service) aggregate(customerID string) digest.Context {
	out := make(digest.Context, 0, len(s.registry))
	for _, spec := range s.registry {
		records, err := dataset.Load(s.dataDir, spec, customerID)
		if err != nil {
			s.logger.Warn("dataset read failed",
				zap.String("source", spec.SourceFile),
				zap.Error(err),
			)
			s.metrics.DatasetReadFailures.WithLabelValues(spec.SourceFile).Inc()
			records = nil
		}
		out = append(out, digest.DatasetRecords{
			Label:   spec.Label,
			Source:  spec.SourceFile,
			Records: records,
		})
	}
	return out
}

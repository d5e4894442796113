// Package service runs the ingestion pipeline: load the stored history,
// fetch a new score, compare it with the last one, and persist the result.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/jsonc"

	"github.com/okian/securescore/internal/adapters/repository"
	"github.com/okian/securescore/internal/adapters/source"
	"github.com/okian/securescore/internal/domain/delta"
	"github.com/okian/securescore/internal/domain/history"
	"github.com/okian/securescore/internal/domain/jsondoc"
	"github.com/okian/securescore/internal/domain/record"
	"github.com/okian/securescore/pkg/logger"
	"github.com/okian/securescore/pkg/metrics"
)

const indent = "  "

// Outcome is the result of a successful ingestion.
type Outcome struct {
	RunID    string
	Location string
	// HadHistory is false when this run created the history.
	HadHistory bool
	Records    []record.Fields
	Added      record.ScoreRecord
	Delta      delta.Result
	Bytes      int
}

// Service owns one history store.
type Service struct {
	store         repository.Store
	normalizer    *history.Normalizer
	logger        logger.Logger
	allowComments bool
	pretty        bool
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.normalizer == nil {
		s.normalizer = history.NewNormalizer(history.WithLogger(s.logger))
	}
	return s
}

// Ingest appends one record from src to the stored history. The store is
// left byte-for-byte untouched unless the run reaches PERSIST and the write
// succeeds. Running it twice appends twice.
func (s *Service) Ingest(ctx context.Context, src source.Source) (Outcome, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With(
		logger.String("run_id", runID),
		logger.String("path", s.store.Location()),
	)

	out, err := s.ingest(ctx, log, src)
	out.RunID = runID
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		var se *StageError
		if errors.As(err, &se) {
			metrics.RecordStageError(string(se.Stage), ErrorType(err))
		}
		metrics.RecordIngest("failed", elapsed)
		log.Error(ctx, "ingestion failed", logger.Error(err), logger.String("error_type", ErrorType(err)))
		return out, err
	}

	metrics.RecordIngest(outcomeLabel(out.Delta.Class), elapsed)
	log.Info(ctx, "ingestion complete",
		logger.Int("records", len(out.Records)),
		logger.Bool("created", !out.HadHistory),
		logger.String("delta", out.Delta.String()),
		logger.Duration("took", time.Since(start)),
	)
	return out, nil
}

func (s *Service) ingest(ctx context.Context, log logger.Logger, src source.Source) (Outcome, error) {
	out := Outcome{Location: s.store.Location()}

	if l, ok := s.store.(repository.Locker); ok {
		unlock, err := l.Lock(ctx)
		if err != nil {
			return out, fail(StageRead, err)
		}
		defer func() {
			if err := unlock(); err != nil {
				log.Warn(ctx, "release history lock", logger.Error(err))
			}
		}()
	}

	snap, err := s.load(ctx, log)
	if err != nil {
		return out, err
	}
	out.HadHistory = snap.Exists

	log.Debug(ctx, "fetching new score")
	fresh, err := src.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, source.ErrSource) {
			err = fmt.Errorf("%w: %w", source.ErrSource, err)
		}
		return out, fail(StageFetch, err)
	}
	// Fields from a custom Source may not have gone through validation.
	if fresh, err = record.Validate(fresh.Object()); err != nil {
		return out, fail(StageFetch, fmt.Errorf("%w: new record: %v", source.ErrSource, err))
	}
	out.Added = fresh.Record()

	res, err := delta.Compute(history.Latest(snap.Records), fresh)
	if err != nil {
		return out, fail(StageDelta, err)
	}
	out.Delta = res

	next := history.Append(snap.Records, fresh)

	data, err := s.encode(next)
	if err != nil {
		return out, fail(StageAppend, fmt.Errorf("%w: %w", ErrWrite, err))
	}
	if err := s.store.Write(ctx, data); err != nil {
		if !errors.Is(err, ErrWrite) {
			err = fmt.Errorf("%w: %w", ErrWrite, err)
		}
		return out, fail(StagePersist, err)
	}
	out.Records = next
	out.Bytes = len(data)

	metrics.UpdateScore(out.Added.CurrentScore, out.Added.MaxScore, out.Added.ScorePercentage)
	if res.Computed {
		metrics.UpdateDelta(res.Delta)
	}
	metrics.UpdateHistoryRecords(len(next))
	metrics.UpdateStorageBytes(len(data))
	metrics.RecordSuccess(time.Now())
	return out, nil
}

// Load reads and normalizes the stored history. A missing file is an empty
// history; an empty file is a parse error.
func (s *Service) Load(ctx context.Context) (history.Snapshot, error) {
	return s.load(ctx, s.logger)
}

func (s *Service) load(ctx context.Context, log logger.Logger) (history.Snapshot, error) {
	snap := history.Snapshot{Location: s.store.Location(), Records: []record.Fields{}}

	root, ok, err := s.read(ctx, log)
	if err != nil || !ok {
		return snap, err
	}

	records, err := s.normalizer.Flatten(ctx, root)
	if err != nil {
		return snap, fail(StageNormalize, err)
	}
	snap.Exists = true
	snap.Records = records
	log.Debug(ctx, "history loaded", logger.Int("records", len(records)))
	return snap, nil
}

// Check applies strict validation to the stored history: every element,
// however deeply nested, must be a valid record.
func (s *Service) Check(ctx context.Context) (history.Snapshot, error) {
	snap := history.Snapshot{Location: s.store.Location(), Records: []record.Fields{}}

	root, ok, err := s.read(ctx, s.logger)
	if err != nil || !ok {
		return snap, err
	}
	records, err := record.ValidateDocument(root)
	if err != nil {
		return snap, fail(StageNormalize, err)
	}
	snap.Exists = true
	snap.Records = append(snap.Records, records...)
	return snap, nil
}

// read runs READ and PARSE. ok is false when there is no history yet.
func (s *Service) read(ctx context.Context, log logger.Logger) (jsondoc.Value, bool, error) {
	raw, err := s.store.Read(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info(ctx, "no history found, starting a new one")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fail(StageRead, err)
	}
	if s.allowComments {
		raw = jsonc.ToJSON(raw)
	}

	root, err := jsondoc.Parse(raw)
	if err != nil {
		return nil, false, fail(StageParse, fmt.Errorf("%w: %w", ErrParse, err))
	}
	return root, true, nil
}

func (s *Service) encode(records []record.Fields) ([]byte, error) {
	doc := history.Document(records)
	if !s.pretty {
		return jsondoc.Marshal(doc)
	}
	data, err := jsondoc.MarshalIndent(doc, "", indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func outcomeLabel(c delta.Class) string {
	switch c {
	case delta.FirstCapture:
		return "first_capture"
	case delta.Improved:
		return "improved"
	case delta.Regressed:
		return "regressed"
	default:
		return "unchanged"
	}
}

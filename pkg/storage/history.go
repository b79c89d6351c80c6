// Package storage persists evaluation runs to a local SQLite database
// so successive runs over the same pipeline can be compared.
package storage

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/errors"
	"github.com/ragstack/rageval/pkg/interfaces"
	"github.com/ragstack/rageval/pkg/types"
)

// EvaluationRun is the persisted form of one evaluation result. The
// aggregate metrics are flattened into queryable columns; the full
// result is kept as a JSON payload.
type EvaluationRun struct {
	ID      uint   `gorm:"primarykey"`
	RunID   string `gorm:"uniqueIndex;size:36"`
	Success bool

	ContextPrecision    *float64
	ContextRecall       *float64
	F1Score             *float64
	MRR                 *float64
	MAP                 *float64
	NDCG                *float64
	ContextEntityRecall *float64

	TotalSamples   int
	SkippedSamples int

	Payload   string `gorm:"type:text"`
	CreatedAt time.Time
}

// HistoryStore is a gorm-backed store of past evaluation runs. It
// implements interfaces.ResultSink.
type HistoryStore struct {
	db     *gorm.DB
	logger interfaces.Logger
}

var _ interfaces.ResultSink = (*HistoryStore)(nil)

// OpenHistoryStore opens (and migrates) the history database. A
// disabled config returns nil without error.
func OpenHistoryStore(cfg *config.HistoryConfig, logger interfaces.Logger) (*HistoryStore, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	path := cfg.Path
	if path == "" {
		path = "rageval_history.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.NewStorageError("failed to open history database", err)
	}
	if err := db.AutoMigrate(&EvaluationRun{}); err != nil {
		return nil, errors.NewStorageError("failed to migrate history schema", err)
	}

	return &HistoryStore{db: db, logger: logger}, nil
}

// Store persists one evaluation result
func (s *HistoryStore) Store(ctx context.Context, result *types.EvaluationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return errors.NewStorageError("failed to encode result", err)
	}

	run := EvaluationRun{
		RunID:   result.RunID,
		Success: result.Success,

		ContextPrecision:    result.AggregateMetrics.ContextPrecision,
		ContextRecall:       result.AggregateMetrics.ContextRecall,
		F1Score:             result.AggregateMetrics.F1Score,
		MRR:                 result.AggregateMetrics.MRR,
		MAP:                 result.AggregateMetrics.MAP,
		NDCG:                result.AggregateMetrics.NDCG,
		ContextEntityRecall: result.AggregateMetrics.ContextEntityRecall,

		TotalSamples:   result.AggregateMetrics.TotalSamples,
		SkippedSamples: result.Diagnostics.SkippedSamples,

		Payload:   string(payload),
		CreatedAt: result.EvaluatedAt,
	}

	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return errors.NewStorageError("failed to persist run", err)
	}

	s.logger.Debug("persisted evaluation run", map[string]interface{}{
		"run_id": result.RunID,
	})
	return nil
}

// Recent returns the most recent runs, newest first
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]EvaluationRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []EvaluationRun
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, errors.NewStorageError("failed to list runs", err)
	}
	return runs, nil
}

// Get returns one run by its run identifier
func (s *HistoryStore) Get(ctx context.Context, runID string) (*EvaluationRun, error) {
	var run EvaluationRun
	err := s.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.NewNotFoundError("run " + runID)
	}
	if err != nil {
		return nil, errors.NewStorageError("failed to load run", err)
	}
	return &run, nil
}

// Result decodes the persisted payload back into an evaluation result
func (r *EvaluationRun) Result() (*types.EvaluationResult, error) {
	var result types.EvaluationResult
	if err := json.Unmarshal([]byte(r.Payload), &result); err != nil {
		return nil, errors.NewStorageError("failed to decode persisted run", err)
	}
	return &result, nil
}

// Close closes the underlying database connection
func (s *HistoryStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

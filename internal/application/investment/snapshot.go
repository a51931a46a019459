package investment

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack/backend/internal/domain/investment"
	"github.com/fintrack/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSnapshotBatch = 500

// SnapshotService records the daily value of every holding
type SnapshotService struct {
	investmentRepo investment.InvestmentRepository
	snapshotRepo   investment.SnapshotRepository
	logger         *zap.Logger
	batchSize      int
	now            func() time.Time
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(investmentRepo investment.InvestmentRepository, snapshotRepo investment.SnapshotRepository, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		investmentRepo: investmentRepo,
		snapshotRepo:   snapshotRepo,
		logger:         logger,
		batchSize:      defaultSnapshotBatch,
		now:            time.Now,
	}
}

// SnapshotReport summarizes one snapshot pass
type SnapshotReport struct {
	Recorded int `json:"recorded"`
	Failed   int `json:"failed"`
}

// RecordDaily upserts today's snapshot for every investment. Running it twice
// on one day overwrites the first snapshot.
func (s *SnapshotService) RecordDaily(ctx context.Context) (SnapshotReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "investment", "record_snapshots")
	defer span.End()

	var report SnapshotReport
	day := investment.TruncateDay(s.now())
	after := uuid.Nil

	for {
		batch, err := s.investmentRepo.FindAllActive(ctx, after, s.batchSize)
		if err != nil {
			telemetry.RecordError(span, err)
			return report, fmt.Errorf("load investments: %w", err)
		}
		for i := range batch {
			inv := &batch[i]
			if err := s.snapshotRepo.Upsert(ctx, inv.Snapshot(day)); err != nil {
				report.Failed++
				s.logger.Error("Failed to record investment snapshot",
					zap.String("investment_id", inv.ID.String()),
					zap.Error(err),
				)
				continue
			}
			report.Recorded++
		}
		if len(batch) < s.batchSize {
			break
		}
		after = batch[len(batch)-1].ID
		if err := ctx.Err(); err != nil {
			return report, err
		}
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCount, report.Recorded, "failed", report.Failed)
	s.logger.Info("Investment snapshots recorded",
		zap.Time("day", day),
		zap.Int("recorded", report.Recorded),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

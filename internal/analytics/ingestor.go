package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nulzo/cache-gateway-api/internal/store"
	"github.com/nulzo/cache-gateway-api/internal/store/model"
)

// Ingestor handles the asynchronous persistence of operation logs. Requests
// never block on the diagnostics database: a full buffer drops the log.
type Ingestor interface {
	Log(op *model.OperationLog)
	Start(ctx context.Context)
	Stop()
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	logChan   chan *model.OperationLog
	batchSize int
	flushTime time.Duration
}

func NewIngestor(logger *zap.Logger, repo store.Repository) Ingestor {
	return &ingestor{
		logger:    logger,
		repo:      repo,
		logChan:   make(chan *model.OperationLog, 10000),
		batchSize: 50,
		flushTime: 5 * time.Second,
	}
}

func (i *ingestor) Log(op *model.OperationLog) {
	select {
	case i.logChan <- op:
	default:
		i.logger.Warn("operation log buffer full, dropping entry", zap.String("op", op.Op))
	}
}

func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

func (i *ingestor) Stop() {
	close(i.logChan)
}

func (i *ingestor) worker(ctx context.Context) {
	batch := make([]*model.OperationLog, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		for _, op := range batch {
			if err := i.repo.Operations().Log(context.Background(), op); err != nil {
				i.logger.Error("failed to persist operation log", zap.String("id", op.ID), zap.Error(err))
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case op, ok := <-i.logChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, op)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}

package workers

import (
	"context"
	"time"

	"github.com/jroark/cellduel/pkg/log"
	"github.com/jroark/cellduel/pkg/repositories"
)

const saveTimeout = 5 * time.Second

type SaveGameRecordWorker struct {
	repository         repositories.Repository
	saveGameRecordChan <-chan *repositories.GameRecord
}

type NewSaveGameRecordWorkerOptions struct {
	Repository         repositories.Repository
	SaveGameRecordChan <-chan *repositories.GameRecord
}

// NewSaveGameRecordWorker creates a new SaveGameRecordWorker.
// The worker drains finished-match records from the router and persists
// them, keeping database latency out of the message path.
func NewSaveGameRecordWorker(opts NewSaveGameRecordWorkerOptions) *SaveGameRecordWorker {
	return &SaveGameRecordWorker{
		repository:         opts.Repository,
		saveGameRecordChan: opts.SaveGameRecordChan,
	}
}

func (w *SaveGameRecordWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case record := <-w.saveGameRecordChan:
			w.saveGameRecord(ctx, record)
		}
	}
}

func (w *SaveGameRecordWorker) saveGameRecord(ctx context.Context, record *repositories.GameRecord) {
	saveCtx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	if err := w.repository.SaveGameRecord(saveCtx, record); err != nil {
		log.Error("Failed to save game record for game %s: %v", record.Code, err)
		return
	}
	log.Debug("Saved game record for game %s", record.Code)
}

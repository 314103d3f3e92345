package reconciler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/questforge/questforge-backend/internal/engine/repository"
	"github.com/questforge/questforge-backend/pkg/logging"
)

// Reconciler repairs quest progress rows whose synchronous recompute was
// missed, for example when the process died between persisting a completion
// and updating the aggregate.
type Reconciler struct {
	quests      repository.QuestRepository
	completions repository.CompletionRepository
	progress    repository.ProgressRepository
	logger      logging.Logger
	cron        *cron.Cron
}

func NewReconciler(
	quests repository.QuestRepository,
	completions repository.CompletionRepository,
	progress repository.ProgressRepository,
	logger logging.Logger,
) *Reconciler {
	return &Reconciler{
		quests:      quests,
		completions: completions,
		progress:    progress,
		logger:      logger.With("component", "reconciler"),
		cron:        cron.New(),
	}
}

// Start schedules the repair sweep every 10 minutes.
func (r *Reconciler) Start() error {
	_, err := r.cron.AddFunc("*/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		r.Run(ctx)
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("Progress reconciler started")
	return nil
}

func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Run performs one sweep over incomplete progress rows, recounting each
// from the completion records.
func (r *Reconciler) Run(ctx context.Context) {
	rows, err := r.progress.ListIncomplete(ctx)
	if err != nil {
		r.logger.Errorf("Reconciler sweep failed to list progress rows: %v", err)
		return
	}

	repaired := 0
	for _, row := range rows {
		// Task rows are the record of truth for the total; the quest's
		// task_count column can drift when tasks are added or removed.
		tasks, err := r.quests.GetTasksByQuestID(ctx, row.QuestID)
		if err != nil {
			r.logger.Warnf("Reconciler skipping quest %d: %v", row.QuestID, err)
			continue
		}
		if len(tasks) == 0 {
			continue
		}

		count, err := r.completions.CountCompletedByQuest(ctx, row.UserID, row.QuestID)
		if err != nil {
			r.logger.Warnf("Reconciler count failed for user %d quest %d: %v", row.UserID, row.QuestID, err)
			continue
		}

		isCompleted := count >= len(tasks)
		if count == row.CompletedTasks && !isCompleted {
			continue
		}

		if err := r.progress.UpdateProgress(ctx, row.UserID, row.QuestID, count, isCompleted, row.XPEarned); err != nil {
			r.logger.Warnf("Reconciler update failed for user %d quest %d: %v", row.UserID, row.QuestID, err)
			continue
		}
		repaired++
	}

	if repaired > 0 {
		r.logger.Infof("Reconciler repaired %d progress rows", repaired)
	}
}

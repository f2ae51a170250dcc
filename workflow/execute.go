package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/models"
	"github.com/madamisu/venue_backend/utils"
	"github.com/sirupsen/logrus"
)

const moduleName = "workflow"

// ErrImportInProgress means another import for the same organization holds
// the execution lock.
var ErrImportInProgress = errors.New("schedule import already in progress for this organization")

// ExecuteResult sums up what one plan run actually wrote.
type ExecuteResult struct {
	Deleted  int      `json:"deleted"`
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Memos    int      `json:"memos"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Messages []string `json:"messages,omitempty"`
}

func (r *ExecuteResult) fail(format string, args ...interface{}) {
	r.Failed++
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// Execute runs a reconciliation plan against the database. Ordering is
// fixed: deletions first (reservations before events, in one transaction),
// then inserts in bounded batches, then updates, then memo upserts. Insert
// and update failures are accumulated per batch, they do not abort the rest
// of the run. Deletion failure does abort, writing new rows on top of a
// half-cleared month would corrupt the replace semantics.
func Execute(ctx context.Context, plan *ReconciliationPlan) (*ExecuteResult, error) {
	funcName := "Execute"
	logger := config.GetLogger()
	organizationId, _ := utils.GetOrganizationIdFromContext(ctx)
	if organizationId == "" {
		return nil, utils.ErrorOrganizationRequired
	}

	release, err := obtainImportLock(ctx, organizationId)
	if err != nil {
		return nil, err
	}
	defer release()

	result := &ExecuteResult{}

	if len(plan.DeleteEventIds) > 0 {
		if err := models.DeleteEventsCascade(ctx, plan.DeleteEventIds); err != nil {
			config.LogError(logger, moduleName, funcName, "delete month", plan.Months, err)
			return nil, fmt.Errorf("delete existing events: %w", err)
		}
		result.Deleted = len(plan.DeleteEventIds)
		logger.WithField("count", result.Deleted).Info("existing events deleted")
	}

	batchSize := config.ImportBatchSize()

	var pending []*models.ScheduleEvent
	flushInserts := func() {
		if len(pending) == 0 {
			return
		}
		if err := models.InsertEvents(ctx, pending); err != nil {
			config.LogError(logger, moduleName, funcName, "insert batch", len(pending), err)
			result.fail("insert batch of %d failed: %v", len(pending), err)
		} else {
			result.Inserted += len(pending)
		}
		pending = nil
	}

	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		switch a := action.(type) {
		case InsertAction:
			event := NewEventFromDraft(a.Draft, organizationId)
			pending = append(pending, &event)
			if len(pending) >= batchSize {
				flushInserts()
			}
		case SkipAction:
			result.Skipped++
		}
	}
	flushInserts()

	updated := 0
	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		a, ok := action.(UpdateAction)
		if !ok {
			continue
		}
		event := a.MergedEvent(organizationId)
		if err := models.UpdateEvent(ctx, &event); err != nil {
			config.LogError(logger, moduleName, funcName, "update event", a.EventId, err)
			result.fail("update %s (%s %s) failed: %v", a.EventId, a.Draft.Date, a.Draft.Venue, err)
			continue
		}
		result.Updated++
		updated++
		if updated%batchSize == 0 {
			logger.WithField("updated", updated).Debug("update batch progress")
		}
	}

	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		a, ok := action.(MemoAction)
		if !ok {
			continue
		}
		if err := models.UpsertDayMemo(ctx, a.Memo.Date, a.Memo.StoreId, a.Body); err != nil {
			config.LogError(logger, moduleName, funcName, "upsert memo", a.Memo, err)
			result.fail("memo %s %s failed: %v", a.Memo.Date, a.Memo.Venue, err)
			continue
		}
		result.Memos++
	}

	logger.WithFields(logrus.Fields{
		"organizationId": organizationId,
		"months":         plan.Months,
		"deleted":        result.Deleted,
		"inserted":       result.Inserted,
		"updated":        result.Updated,
		"memos":          result.Memos,
		"failed":         result.Failed,
	}).Info("schedule import executed")
	return result, nil
}

// obtainImportLock takes a short per-organization lock so two operators
// cannot execute overlapping imports. Without redis configured the lock
// degrades to a no-op; plan-level slot dedup still holds within each run.
func obtainImportLock(ctx context.Context, organizationId string) (func(), error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return func() {}, nil
	}
	lock, err := locker.Obtain(ctx, "ScheduleImportLock:"+organizationId, 2*time.Minute, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrImportInProgress
	}
	if err != nil {
		config.GetLogger().WithError(err).Warn("import lock unavailable, continuing without it")
		return func() {}, nil
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil {
			config.GetLogger().WithError(err).Warn("import lock release failed")
		}
	}, nil
}

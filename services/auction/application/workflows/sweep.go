// Package workflows runs the expiration sweep as a Temporal schedule, the
// alternative to the in-process ticker when several workers are deployed.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/services/auction/application/scheduler"
)

const (
	WorkflowName = "SweepExpiredAuctions"
	ActivityName = "SweepExpiredAuctionsActivity"
	ScheduleID   = "auction-expiration-sweep"
)

// SweepResult is returned by the activity and the workflow.
type SweepResult struct {
	Closed     int      `json:"closed"`
	AuctionIDs []string `json:"auction_ids"`
}

// SweepExpiredAuctionsWorkflow runs a single sweep activity with retries.
func SweepExpiredAuctionsWorkflow(ctx workflow.Context) (SweepResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	})

	var res SweepResult
	if err := workflow.ExecuteActivity(ctx, ActivityName).Get(ctx, &res); err != nil {
		return SweepResult{}, err
	}
	return res, nil
}

// Activities holds the dependencies of the sweep activity.
type Activities struct {
	Sweeper scheduler.Sweeper
	Log     logger.Logger
}

// SweepExpired closes the auctions due at the activity's wall-clock time.
func (a *Activities) SweepExpired(ctx context.Context) (SweepResult, error) {
	closed, err := a.Sweeper.SweepExpired(ctx, time.Now())
	if err != nil {
		return SweepResult{}, fmt.Errorf("sweep expired auctions (attempt %d): %w", activity.GetInfo(ctx).Attempt, err)
	}
	res := SweepResult{Closed: len(closed), AuctionIDs: make([]string, len(closed))}
	for i, au := range closed {
		res.AuctionIDs[i] = au.ID.String()
	}
	if res.Closed > 0 {
		a.Log.InfoContext(ctx, "temporal sweep closed auctions", "count", res.Closed)
	}
	return res, nil
}

// Register adds the workflow and activity to w under their stable names.
func Register(w worker.Registry, acts *Activities) {
	w.RegisterWorkflowWithOptions(SweepExpiredAuctionsWorkflow, workflow.RegisterOptions{Name: WorkflowName})
	w.RegisterActivityWithOptions(acts.SweepExpired, activity.RegisterOptions{Name: ActivityName})
}

// EnsureSchedule creates the sweep schedule if it does not exist yet.
// Overlapping runs are skipped, so a slow sweep never runs concurrently with the next.
func EnsureSchedule(ctx context.Context, c client.Client, taskQueue string, every time.Duration) error {
	_, err := c.ScheduleClient().Create(ctx, client.ScheduleOptions{
		ID: ScheduleID,
		Spec: client.ScheduleSpec{
			Intervals: []client.ScheduleIntervalSpec{{Every: every}},
		},
		Action: &client.ScheduleWorkflowAction{
			ID:        ScheduleID + "-run",
			Workflow:  WorkflowName,
			TaskQueue: taskQueue,
		},
		Overlap: enumspb.SCHEDULE_OVERLAP_POLICY_SKIP,
	})
	if err != nil && !errors.Is(err, temporal.ErrScheduleAlreadyRunning) {
		return fmt.Errorf("create sweep schedule: %w", err)
	}
	return nil
}

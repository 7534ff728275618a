package worker

import (
	sdkclient "go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ian97531/boombox/internal/app/temporal/activities"
	"github.com/ian97531/boombox/internal/app/temporal/workflows"
)

// New creates a worker for the episode workflow on taskQueue
func New(c sdkclient.Client, taskQueue string, acts *activities.EpisodeActivities, maxConcurrentActivities int) sdkworker.Worker {
	w := sdkworker.New(c, taskQueue, sdkworker.Options{
		MaxConcurrentActivityExecutionSize: maxConcurrentActivities,
	})
	Register(w, acts)
	return w
}

// Register adds the workflow and activities to a worker or test environment
func Register(r interface {
	RegisterWorkflow(w interface{})
	RegisterActivity(a interface{})
}, acts *activities.EpisodeActivities) {
	r.RegisterWorkflow(workflows.EpisodeWorkflow)
	r.RegisterActivity(acts)
}

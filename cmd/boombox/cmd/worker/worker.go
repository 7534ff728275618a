package worker

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ian97531/boombox/cmd/boombox/cmd/common"
	"github.com/ian97531/boombox/internal/app"
	"github.com/ian97531/boombox/internal/app/temporal/activities"
	temporalcommon "github.com/ian97531/boombox/internal/app/temporal/pkg/common"
	appworker "github.com/ian97531/boombox/internal/app/temporal/worker"
)

var (
	healthAddr    string
	maxActivities int
)

func init() {
	Cmd.Flags().StringVar(&healthAddr, "health-addr", ":8081", "address of the /health, /live and /ready endpoints")
	Cmd.Flags().IntVar(&maxActivities, "max-activities", 8, "maximum concurrent activity executions")
}

// Cmd represents the worker command
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a Temporal worker for the episode workflow",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := app.InitializeApplication(common.ConfigPath())
		if err != nil {
			return err
		}
		defer cleanup()

		cfg := application.Config
		logger := application.Logger

		hostname, _ := os.Hostname()
		health := appworker.NewHealth(fmt.Sprintf("%s-%d", hostname, os.Getpid()), cfg.Temporal.TaskQueue)
		health.Update(func(s *appworker.HealthStatus) {
			s.Storage = appworker.ConnectionStatus{Connected: true, Endpoint: cfg.Storage.Endpoint}
			s.Gate = appworker.ConnectionStatus{Connected: true, Endpoint: cfg.Redis.Addr}
		})
		healthServer := health.Serve(healthAddr, logger)
		defer healthServer.Shutdown(context.Background())

		c, err := temporalcommon.NewTemporalClient(cfg.Temporal, logger)
		if err != nil {
			health.Update(func(s *appworker.HealthStatus) {
				s.Status = "unhealthy"
				s.Temporal = appworker.ConnectionStatus{Endpoint: cfg.Temporal.HostPort, Error: err.Error()}
			})
			return err
		}
		defer c.Close()

		acts := activities.NewEpisodeActivities(application.Processor, application.Gate)
		w := appworker.New(c, cfg.Temporal.TaskQueue, acts, maxActivities)

		health.Update(func(s *appworker.HealthStatus) {
			s.Status = "healthy"
			s.Temporal = appworker.ConnectionStatus{Connected: true, Endpoint: cfg.Temporal.HostPort}
		})
		logger.Info("Starting worker",
			zap.String("task_queue", cfg.Temporal.TaskQueue),
			zap.Int("max_activities", maxActivities),
		)

		interrupt := make(chan interface{})
		go func() {
			<-cmd.Context().Done()
			close(interrupt)
		}()
		return w.Run(interrupt)
	},
}

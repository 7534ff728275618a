package serve

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ian97531/boombox/cmd/boombox/cmd/common"
	"github.com/ian97531/boombox/internal/api/server"
	v1routes "github.com/ian97531/boombox/internal/api/v1/routes"
	"github.com/ian97531/boombox/internal/api/v1/services"
	"github.com/ian97531/boombox/internal/app"
	temporalcommon "github.com/ian97531/boombox/internal/app/temporal/pkg/common"
)

const shutdownTimeout = 15 * time.Second

var withWorkflows bool

func init() {
	Cmd.Flags().BoolVar(&withWorkflows, "workflows", false, "connect to Temporal so POST /api/v1/episodes can start workflows")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve the HTTP API

- Stateless normalize, stitch, merge and statements endpoints under /api/v1
- Stored episodes and statements under /api/v1/episodes
- Prometheus metrics on /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := app.InitializeApplication(common.ConfigPath())
		if err != nil {
			return err
		}
		defer cleanup()

		logger := application.Logger

		var starter services.WorkflowStarter
		if withWorkflows {
			c, err := temporalcommon.NewTemporalClient(application.Config.Temporal, logger)
			if err != nil {
				return err
			}
			defer c.Close()
			starter = services.NewTemporalStarter(c, application.Config.Temporal)
		}

		container := &v1routes.ServiceContainer{
			TranscriptService: services.NewTranscriptService(application.Normalizers, application.Metrics, application.Config.Engine),
			EpisodeService:    services.NewEpisodeService(application.DAO, starter),
		}
		srv := server.NewServer(server.ConfigFrom(application.Config.Server), container, application.Metrics, logger)
		if err := srv.Start(); err != nil {
			return err
		}

		<-cmd.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
			return err
		}
		return nil
	},
}

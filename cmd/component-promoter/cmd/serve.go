package cmd

import (
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"

	"github.com/yi-nology/component_promoter/biz/handler"
	"github.com/yi-nology/component_promoter/biz/middleware"
	"github.com/yi-nology/component_promoter/biz/router"
	"github.com/yi-nology/component_promoter/pkg/logger"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose promotions and the run journal over HTTP",
	Long: `Starts an HTTP server with endpoints to trigger promotions
(POST /api/v1/promotions) and query past runs (GET /api/v1/runs). The
same mapping, storage and journal configuration as the CLI run applies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := buildEnvironment(ctx, cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if serveAddress != "" {
			env.cfg.Server.Address = serveAddress
		}
		if env.lock != nil {
			middleware.InitPromoteLock(env.lock)
		}

		h := server.Default(server.WithHostPorts(env.cfg.Server.Address))
		h.Use(middleware.Logging())
		router.RegisterPromotionRoutes(h, handler.NewPromotionHandler(env.service))

		go func() {
			<-ctx.Done()
			logger.Infof("shutting down")
			_ = h.Shutdown(cmd.Context())
		}()

		logger.Infof("listening on %s", env.cfg.Server.Address)
		h.Spin()
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address (default from config file)")
	rootCmd.AddCommand(serveCmd)
}

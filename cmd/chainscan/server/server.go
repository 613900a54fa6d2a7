package server

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chainscan/api/routes"
	"chainscan/internal/cache"
	"chainscan/internal/chain"
	"chainscan/internal/config"
	"chainscan/internal/database"
	"chainscan/internal/queue"
)

type ServerOpts struct {
	Port int
}

func NewServerCommand() *cobra.Command {
	opts := &ServerOpts{}

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the chainscan API server",
		Long:  `Start the HTTP API for submitting contracts, polling scan status and reading dashboard aggregates`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg := config.LoadConfig()
			if opts.Port != 0 {
				cfg.HTTPPort = opts.Port
			}

			database.InitDB(cfg)

			source, err := chain.Dial(cfg.RPCURL)
			if err != nil {
				return err
			}
			defer source.Close()

			producer, err := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
			if err != nil {
				return fmt.Errorf("create producer: %w", err)
			}
			defer producer.Close()

			store := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.BytecodeTTL, cfg.ReportTTL)

			router := routes.InitRouter(routes.Dependencies{
				DB:             database.DB,
				Cache:          store,
				Source:         source,
				Enqueuer:       producer,
				DefaultNetwork: cfg.DefaultNetwork,
			})

			log.Infof("API server listening on :%d", cfg.HTTPPort)
			return router.Run(fmt.Sprintf(":%d", cfg.HTTPPort))
		},
	}

	serverCmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Port to run the server on (overrides config)")

	return serverCmd
}

package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chainscan/internal/cache"
	"chainscan/internal/chain"
	"chainscan/internal/config"
	"chainscan/internal/dao"
	"chainscan/internal/database"
	"chainscan/internal/notification"
	"chainscan/internal/queue"
	"chainscan/internal/services"
	"chainscan/pkg/analyzer"
	"chainscan/pkg/logger"
)

func NewWorkerCommand() *cobra.Command {
	var concurrency int

	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Start a scan worker",
		Long:  `Start a worker that consumes scan jobs from the queue, fetches execution context from the chain and writes completed reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg := config.LoadConfig()
			if concurrency != 0 {
				cfg.WorkerConcurrency = concurrency
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				log.Info("Shutting down")
				cancel()
			}()

			database.InitDB(cfg)

			source, err := chain.Dial(cfg.RPCURL)
			if err != nil {
				return err
			}
			defer source.Close()

			catalog := analyzer.DefaultCatalog()
			if cfg.OverridesPath != "" {
				if err := analyzer.LoadOverrides(cfg.OverridesPath, catalog); err != nil {
					return fmt.Errorf("load catalog overrides: %w", err)
				}
				if err := analyzer.WatchOverrides(ctx, cfg.OverridesPath, catalog, logger.NewLogger(log.InfoLevel)); err != nil {
					log.Warnf("Catalog override watching disabled: %v", err)
				}
			}

			var notifier *notification.NotificationClient
			if os.Getenv("DISCORD_TOKEN") != "" {
				notifier, err = notification.NewNotificationClient()
				if err != nil {
					log.Warnf("Failed to initialize Discord client: %v", err)
				} else {
					defer notifier.Close()
					log.Info("Discord notifications enabled")
				}
			} else {
				log.Info("DISCORD_TOKEN not set - Discord notifications disabled")
			}

			store := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.BytecodeTTL, cfg.ReportTTL)

			workerService := services.NewWorkerService(
				dao.NewScanDAO(database.DB),
				dao.NewContractDAO(database.DB),
				store,
				source,
				analyzer.New(catalog),
				notifier,
				cfg.WorkerConcurrency,
			)

			consumer, err := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroup, cfg.KafkaTopic, workerService)
			if err != nil {
				return fmt.Errorf("create consumer: %w", err)
			}
			defer consumer.Close()

			log.Infof("Worker consuming %s as group %s", cfg.KafkaTopic, cfg.KafkaGroup)
			if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	workerCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Max concurrent jobs in this worker (overrides config)")

	return workerCmd
}

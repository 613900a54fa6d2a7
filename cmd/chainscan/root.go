package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chainscan/cmd/chainscan/analyze"
	"chainscan/cmd/chainscan/server"
	"chainscan/cmd/chainscan/worker"
)

func Execute() error {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "chainscan",
		Short: "Contract bytecode risk scanner",
		Long:  `Chainscan analyzes deployed contract bytecode for dangerous operation patterns and produces explainable risk reports`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(server.NewServerCommand())
	rootCmd.AddCommand(worker.NewWorkerCommand())
	rootCmd.AddCommand(analyze.NewAnalyzeCommand())

	return rootCmd.ExecuteContext(context.Background())
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var forceSeed bool

func init() {
	seedCmd.Flags().BoolVar(&forceSeed, "force", false, "overwrite existing data with the built-in dataset")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in dataset",
	Long: `Seed the store with the built-in users, jobs and tasks.

Without --force only collections that were never stored are filled. With --force every
collection is overwritten and stored passwords and the session are cleared.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	if !forceSeed {
		a.logger.Info("Workspace loaded", zap.Int("users", len(a.ws.Users())), zap.Int("jobs", len(a.ws.Jobs())), zap.Int("tasks", len(a.ws.Tasks())))
		return nil
	}
	if err := a.ws.Reset(); err != nil {
		return err
	}
	a.logger.Info("Workspace reset to built-in dataset")
	return nil
}

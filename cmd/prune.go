package main

import (
	"fmt"
	"time"

	"portfolio/internal/service"

	"github.com/spf13/cobra"
)

func newPruneCmd(configDir *string) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete tracking events older than the retention max age",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configDir)
			if err != nil {
				return err
			}
			defer a.close()

			age := a.cfg.Retention.MaxAge
			if maxAge > 0 {
				age = maxAge
			}

			n, err := service.NewRetentionService(a.repos.Tracking, age, a.log).Prune(cmd.Context(), time.Now())
			if err != nil {
				return fmt.Errorf("prune tracking events: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d tracking events older than %s\n", n, age)
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "override retention.max_age (e.g. 720h)")
	return cmd
}

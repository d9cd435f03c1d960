package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/profile/internal/app"
	"github.com/templui/profile/internal/config"
	"github.com/templui/profile/internal/logger"
)

func AvatarsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatars",
		Short: "Avatar maintenance",
	}

	cmd.AddCommand(avatarsPruneCmd())
	return cmd
}

func avatarsPruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete inactive avatars (file and record) not touched for a while",
		Long: `Deletes avatars that are no longer active and were last updated before
the cutoff. Active avatars are never touched. Nothing prunes automatically,
run this from cron or by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}

			cfg := config.Load()
			flush := logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppEnv)
			defer flush()

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			removed, err := a.AvatarService.PruneInactive(cmd.Context(), olderThan)
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d inactive avatar(s) older than %s\n", removed, olderThan)
			return err
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "minimum age since the avatar was last updated")
	return cmd
}

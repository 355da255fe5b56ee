package main

import (
	"errors"
	"fmt"
	"os"

	"portfolio/internal/service"

	"github.com/spf13/cobra"
)

const adminPasswordEnv = "PORTFOLIO_ADMIN_PASSWORD"

func newAdminCmd(configDir *string) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts for the tracking log",
	}
	admin.AddCommand(newAdminAddCmd(configDir))
	return admin
}

func newAdminAddCmd(configDir *string) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv(adminPasswordEnv)
			}
			if password == "" {
				return errors.New("password is required (--password or " + adminPasswordEnv + ")")
			}

			a, err := bootstrap(*configDir)
			if err != nil {
				return err
			}
			defer a.close()

			auth := service.NewAuthService(a.repos.Admins, service.AuthOptions{
				SigningKey: a.cfg.Auth.SigningKey,
				TokenTTL:   a.cfg.Auth.TokenTTL,
			})
			id, err := auth.SignUp(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("create admin %q: %w", username, err)
			}

			a.log.Infow("admin_created", "id", id, "username", username)
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q (id %d)\n", username, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password (or set "+adminPasswordEnv+")")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

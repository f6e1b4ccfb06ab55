package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/parkview/rental-system/internal/core/ports"
	"github.com/parkview/rental-system/internal/core/service"
	"github.com/parkview/rental-system/internal/infrastructure/db/sqlite"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	var in ports.SignupInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Long:  "Create an admin account. The password is read from RENTAL_ADMIN_PASSWORD when --password is omitted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("RENTAL_ADMIN_PASSWORD")
			}
			if strings.TrimSpace(in.Password) == "" {
				return errors.New("a password is required (--password or RENTAL_ADMIN_PASSWORD)")
			}

			db, err := openToolDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sqlite.Close(db) }()
			if _, err := sqlite.NewMigrator(db).Up(cmd.Context()); err != nil {
				return err
			}

			auth := service.NewAuthService(sqlite.NewUserRepository(db), nil, zerolog.Nop())
			user, err := auth.CreateAdmin(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Email, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&in.Email, "email", "", "admin email")
	create.Flags().StringVar(&in.Password, "password", "", "admin password")
	create.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	create.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("first-name")
	_ = create.MarkFlagRequired("last-name")

	cmd.AddCommand(create)
	return cmd
}

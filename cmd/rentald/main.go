// Command rentald runs the rental lifecycle API and its maintenance tasks.
//
// @title        Rental System API
// @version      1.0
// @description  Tenant and admin API for listings, applications, leases, payments and maintenance.
// @BasePath     /
//
// @securityDefinitions.apikey  TenantSession
// @in                          cookie
// @name                        tenant_session
//
// @securityDefinitions.apikey  AdminSession
// @in                          cookie
// @name                        admin_session
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	root := &cobra.Command{
		Use:           "rentald",
		Short:         "Rental lifecycle service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), adminCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rentald:", err)
		os.Exit(1)
	}
}

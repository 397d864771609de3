package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harshhujare/urban-frontend/internal/app"
	"github.com/harshhujare/urban-frontend/internal/config"
)

func main() {
	// A local .env is optional; the config layer has working defaults.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	root := newRootCmd(container)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(container *app.Container) *cobra.Command {
	root := &cobra.Command{
		Use:           "urbanstay",
		Short:         "UrbanStay rental marketplace client",
		Long:          "Browse listings, manage your account, and host properties on UrbanStay from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newLoginCmd(container),
		newRegisterCmd(container),
		newLogoutCmd(container),
		newWhoamiCmd(container),
		newProfileCmd(container),
		newPropertiesCmd(container),
		newUploadCmd(container),
	)
	return root
}

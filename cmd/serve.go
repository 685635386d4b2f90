package main

import (
	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/veritas/config"
	srv "github.com/mohammad-safakhou/veritas/internal/server"
)

func serveCMD() *cobra.Command {
	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run claim-verification HTTP/websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			return srv.Run(cfg)
		},
	}
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return serve
}

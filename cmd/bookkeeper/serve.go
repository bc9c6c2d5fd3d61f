package main

import (
	"log/slog"

	"github.com/Veraticus/bookkeeper/internal/api"
	"github.com/Veraticus/bookkeeper/internal/certs"
	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/config"
	"github.com/Veraticus/bookkeeper/internal/engine"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the books over an HTTP JSON API",
		Long: `Serve the chart of accounts, files, transactions, category suggestions and the
profit and loss statement over HTTP until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, closeEngine, err := newEngine(store, engine.DefaultConfig())
			if err != nil {
				return err
			}
			defer closeEngine()

			if viper.GetString("logging.level") != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			server := api.NewServer(store, eng, slog.Default())
			if viper.GetBool("server.tls") {
				tlsConfig, tlsErr := certs.NewStore(config.CertDir()).TLSConfig()
				if tlsErr != nil {
					return common.NewUserError("could not prepare the TLS certificate", tlsErr)
				}
				server.WithTLS(tlsConfig)
			}

			return server.Run(ctx, config.ServerAddr())
		},
	}

	cmd.Flags().String("addr", api.DefaultAddr, "listen address")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

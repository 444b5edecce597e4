package main

import (
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PUSHPAK-96/cartwise/internal/api"
	"github.com/PUSHPAK-96/cartwise/internal/certs"
	"github.com/PUSHPAK-96/cartwise/internal/config"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyses over HTTP",
		Long: `Start the JSON API:

  GET  /api/v1/health
  GET  /api/v1/presets
  GET  /api/v1/datasets
  POST /api/v1/rules            CSV body or ?dataset=name
  POST /api/v1/recommendations  ?basket=A,B
  POST /api/v1/network
  POST /api/v1/survey
  GET  /metrics                 Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	addMiningFlags(cmd)
	cmd.Flags().String("addr", config.DefaultServerAddr, "Listen address")
	cmd.Flags().Bool("tls", false, "Serve HTTPS with a self-signed certificate")
	cmd.Flags().StringSlice("tls-hosts", nil, "Hosts the certificate covers (default: localhost and loopback)")
	cmd.Flags().StringSlice("cors-origin", nil, "Browser origin allowed to call the API (repeatable)")
	cmd.Flags().Int("rate-limit", 0, "Requests per minute per client IP (0 = unlimited)")
	_ = viper.BindPFlag(config.KeyServerAddr, cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag(config.KeyCORSOrigins, cmd.Flags().Lookup("cors-origin"))
	_ = viper.BindPFlag(config.KeyRateLimit, cmd.Flags().Lookup("rate-limit"))
	_ = viper.BindPFlag(config.KeyServerTLS, cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	defaults, err := loadParams(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	analyzer, closeCache, err := newAnalyzer(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	server, err := api.NewServer(api.Options{
		Analyzer:    analyzer,
		Store:       store,
		Defaults:    defaults,
		Version:     version,
		CORSOrigins: viper.GetStringSlice(config.KeyCORSOrigins),
		RateLimit:   viper.GetInt(config.KeyRateLimit),
	})
	if err != nil {
		return err
	}

	var tlsConfig *tls.Config
	if viper.GetBool(config.KeyServerTLS) {
		hosts, _ := cmd.Flags().GetStringSlice("tls-hosts")
		certStore := certs.NewStore(config.CertDir(viper.GetViper()), hosts...)
		if tlsConfig, err = certStore.TLSConfig(); err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		certFile, _ := certStore.Paths()
		slog.Info("Using self-signed certificate", "path", certFile)
	}

	addr := viper.GetString(config.KeyServerAddr)
	slog.Info("Serving cartwise API", "addr", addr, "database", store.Path())
	return server.ListenAndServe(ctx, addr, api.Timeouts(config.ServerTimeouts), tlsConfig)
}

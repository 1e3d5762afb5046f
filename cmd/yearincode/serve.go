package main

import (
	"github.com/spf13/cobra"

	"github.com/0xmhha/year-in-code/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the leaderboard and report API over HTTP",
		Long: `Serve the HTTP API:

  GET  /healthz
  GET  /api/leaderboard?year=&category=&search=&limit=
  POST /api/leaderboard/submit
  GET  /api/github/{username}?year=
  POST /api/report?format=`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := a.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			proxies, err := server.ParseTrustedProxies(cfg.Server.TrustedProxies)
			if err != nil {
				return err
			}

			store, err := a.openStore(cfg, log)
			if err != nil {
				return err
			}
			defer closeStore(store, log)

			srv := server.New(server.Config{
				Addr:           cfg.Server.Addr,
				RateLimit:      cfg.Server.RateLimit,
				Burst:          cfg.Server.Burst,
				MaxUploadBytes: cfg.Server.MaxUploadBytes,
				TrustedProxies: proxies,
			}, store, a.githubClient(cfg, log), a.adapterOptions(cfg, log))

			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/logging"
	"github.com/ZaguanLabs/lingoseo/site"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built site with language redirects on /",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if dir == "" {
				dir = a.cfg.DistDir
			}
			logger := a.logger(logging.SiteModule)

			detector := lingoseo.NewDetector(a.catalog, lingoseo.WithDetectorLogger(a.logger(logging.DetectorModule)))
			handler := site.NewDirHandler(dir,
				site.WithRootRedirect(detector, a.cfg.PreferenceKey),
				site.WithLogger(logger),
			)
			chain := site.Logging(logger)(site.Middleware(detector, a.cfg.PreferenceKey)(handler))

			server := site.NewServer(addr, chain, logger)
			if err := server.Start(); err != nil {
				return commandError(err, "start server")
			}
			fmt.Fprintf(a.stdout, "serving %s on %s\n", dir, server.URL())

			waitErr := make(chan error, 1)
			go func() { waitErr <- server.Wait() }()

			ctx := cmd.Context()
			select {
			case <-ctx.Done():
			case err := <-waitErr:
				if err != nil {
					return commandError(err, "serve")
				}
				return nil
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return commandError(err, "shutdown")
			}
			fmt.Fprintln(a.stdout, "stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to serve (default: dist_dir)")
	return cmd
}

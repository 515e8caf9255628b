package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/lingoseo/config"
	"github.com/ZaguanLabs/lingoseo/logging"
	"github.com/ZaguanLabs/lingoseo/prerender"
	"github.com/ZaguanLabs/lingoseo/site"
)

func newPrerenderCmd(a *app) *cobra.Command {
	var (
		out        string
		kind       string
		chromePath string
		headful    bool
		timeout    time.Duration
		noHead     bool
	)

	cmd := &cobra.Command{
		Use:   "prerender",
		Short: "Capture /{lang}/ for every language into dist/{lang}/index.html",
		Long: `Serve dist_dir on a local address, open every language path in a
renderer, wait for the app to mount and write the captured markup to
{out}/{lang}/index.html together with prerender-report.json.

A language that fails is reported and the others still run; the command
then exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if out == "" {
				out = a.cfg.DistDir
			}
			if kind == "" {
				kind = a.cfg.Prerender.Renderer
			}
			if kind != config.RendererChrome && kind != config.RendererHTTP {
				return usageError(fmt.Errorf("unknown renderer %q", kind))
			}
			if chromePath == "" {
				chromePath = a.cfg.Prerender.ChromePath
			}
			if timeout <= 0 {
				timeout = a.cfg.Prerender.Timeout
			}
			logger := a.logger(logging.PrerenderModule)

			handler := site.NewDirHandler(a.cfg.DistDir, site.WithShellOnly(), site.WithLogger(a.logger(logging.SiteModule)))
			server := site.NewServer(a.cfg.Prerender.Addr, site.Logging(a.logger(logging.SiteModule))(handler), logger)

			readiness := a.cfg.Readiness()
			readiness.Timeout = timeout
			newRenderer := func(ctx context.Context) (prerender.Renderer, error) {
				if kind == config.RendererHTTP {
					return prerender.NewHTTPRenderer(nil, readiness, 0), nil
				}
				r, err := prerender.NewChromeRenderer(ctx, prerender.ChromeOptions{
					ExecPath:  chromePath,
					Headful:   headful,
					Readiness: readiness,
					Logger:    logger,
				})
				if err != nil {
					return nil, err
				}
				return r, nil
			}

			opts := []prerender.Option{prerender.WithLogger(logger)}
			if !noHead {
				resolver, _, err := a.resolver(cmd.Context())
				if err != nil {
					return err
				}
				opts = append(opts, prerender.WithHead(headFunc(a, resolver, "/", time.Now)))
			}

			orch := prerender.NewOrchestrator(a.catalog, server, newRenderer, prerender.Config{
				OutputDir:     out,
				Timeout:       timeout,
				Settle:        readiness.Settle,
				ProbeTimeout:  a.cfg.Prerender.ProbeTimeout,
				ReadySelector: a.cfg.Prerender.ReadySelector,
			}, opts...)

			report, err := orch.Run(cmd.Context())
			if report != nil {
				if perr := printReport(a, report); perr != nil {
					return perr
				}
			}
			if err != nil {
				if errors.Is(err, prerender.ErrIncomplete) {
					return commandError(err, "prerender finished with failures")
				}
				return commandError(err, "prerender")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default: dist_dir)")
	cmd.Flags().StringVar(&kind, "renderer", "", "Renderer: chrome or http (default: prerender.renderer)")
	cmd.Flags().StringVar(&chromePath, "chrome-path", "", "Browser binary (default: prerender.chrome_path)")
	cmd.Flags().BoolVar(&headful, "headful", false, "Show the browser window")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-language readiness timeout (default: prerender.timeout)")
	cmd.Flags().BoolVar(&noHead, "no-head", false, "Write captured markup without rewriting head tags")
	return cmd
}

func printReport(a *app, report *prerender.Report) error {
	if a.jsonOut {
		return a.printJSON(report)
	}
	for _, job := range report.Jobs {
		switch job.Status {
		case prerender.StatusSuccess:
			fmt.Fprintf(a.stdout, "  ok     %-5s %s (%d bytes, %dms)\n", job.Language, job.Output, job.Bytes, job.DurationMS)
		default:
			fmt.Fprintf(a.stdout, "  %-6s %-5s %s\n", job.Status, job.Language, job.Error)
		}
	}
	fmt.Fprintln(a.stdout, report.Summary())
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/lingoseo/logging"
)

func newSitemapCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write per-language sitemaps and the sitemap index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if out == "" {
				out = a.cfg.DistDir
			}

			meta := a.cfg.MetadataGenerator(a.catalog)
			gen := a.cfg.SitemapGenerator(meta, a.logger(logging.SitemapModule))
			written, err := gen.Write(out)
			if err != nil {
				return commandError(err, "write sitemaps")
			}

			if a.jsonOut {
				return a.printJSON(map[string]any{"files": written})
			}
			for _, path := range written {
				fmt.Fprintln(a.stdout, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default: dist_dir)")
	return cmd
}

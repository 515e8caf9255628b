package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/htmldoc"
	"github.com/ZaguanLabs/lingoseo/prerender"
)

func newMetaCmd(a *app) *cobra.Command {
	var (
		lang   string
		path   string
		asHTML bool
	)

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Print the head metadata for one language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			code := lang
			if code == "" {
				code = string(a.catalog.Default())
			}
			target, err := a.language(code)
			if err != nil {
				return err
			}

			resolver, _, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}
			head := headFunc(a, resolver, path, time.Now)
			meta, jsonld, err := head(target)
			if err != nil {
				return commandError(err, "build structured data")
			}

			if asHTML {
				fmt.Fprintf(a.stdout, "<html lang=%q dir=%q>\n", meta.HTMLLang, meta.Direction)
				fmt.Fprint(a.stdout, htmldoc.RenderHead(meta, jsonld))
				return nil
			}
			if a.jsonOut {
				return a.printJSON(struct {
					lingoseo.PageMetadata
					StructuredData []string `json:"structuredData"`
				}{meta, jsonld})
			}

			fmt.Fprintf(a.stdout, "%s  %s\n", meta.Language, meta.Title)
			fmt.Fprintf(a.stdout, "  canonical:  %s\n", meta.Canonical)
			fmt.Fprintf(a.stdout, "  og:locale:  %s\n", meta.OpenGraph.Locale)
			for _, alt := range meta.Alternates {
				fmt.Fprintf(a.stdout, "  hreflang %-10s %s\n", alt.Hreflang, alt.Href)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language (default: default_language)")
	cmd.Flags().StringVar(&path, "path", "/", "Page path, with or without a language prefix")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Print the rendered head tags")
	return cmd
}

// headFunc builds head metadata and JSON-LD for path from the resolved
// seo.* keys.
func headFunc(a *app, resolver *lingoseo.Resolver, path string, now func() time.Time) prerender.HeadFunc {
	builder := lingoseo.PageBuilder{
		Generator: a.cfg.MetadataGenerator(a.catalog),
		Resolver:  resolver,
		Profile:   &a.cfg.Person,
		Now:       now,
	}
	return func(lang lingoseo.Language) (lingoseo.PageMetadata, []string, error) {
		page := builder.Build(lang, path)
		return page.Metadata, page.JSONLD, page.Err
	}
}

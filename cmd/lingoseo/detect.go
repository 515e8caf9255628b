package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/logging"
	"github.com/ZaguanLabs/lingoseo/prefstore"
)

type detectOutput struct {
	lingoseo.ResolvedLanguage
	HTMLLang  string `json:"htmlLang"`
	Direction string `json:"dir"`
	Stored    string `json:"stored,omitempty"`
	Saved     bool   `json:"saved"`
}

func newDetectCmd(a *app) *cobra.Command {
	var (
		path   string
		accept string
		stored string
		client string
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Resolve the language a request would be served in",
		Long: `Resolve the served language from, in order: the first path segment,
the stored preference, the Accept-Language header and the default language.

--client reads and writes the preference of one client in the configured
store (memory, redis or sqlite). --stored simulates a stored value instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if client != "" && cmd.Flags().Changed("stored") {
				return usageError(errors.New("--client and --stored are mutually exclusive"))
			}
			ctx := cmd.Context()

			var prefs lingoseo.Preferences
			switch {
			case client != "":
				store, closeStore, err := a.cfg.OpenStore(ctx)
				if err != nil {
					return commandError(err, "open preference store")
				}
				defer closeStore()
				if store == nil {
					return usageError(fmt.Errorf("--client needs a keyed store, store.kind is %q", a.cfg.Store.Kind))
				}
				prefs = prefstore.Scope(store, client)
			case cmd.Flags().Changed("stored"):
				store := prefstore.NewMemoryStore(0)
				if stored != "" {
					if err := store.Set(ctx, a.cfg.PreferenceKey, stored); err != nil {
						return commandError(err, "seed preference")
					}
				}
				prefs = prefstore.Scope(store, a.cfg.PreferenceKey)
			}

			var before string
			if prefs != nil {
				v, err := prefs.Load(ctx)
				if err != nil {
					return commandError(err, "read preference")
				}
				before = v
			}

			detector := lingoseo.NewDetector(a.catalog, lingoseo.WithDetectorLogger(a.logger(logging.DetectorModule)))
			resolved := detector.Resolve(ctx, lingoseo.DetectContext{
				Path:        path,
				Preferences: prefs,
				Accepted:    lingoseo.AcceptedLanguages(accept),
			})

			meta := a.catalog.Meta(resolved.Language)
			out := detectOutput{
				ResolvedLanguage: resolved,
				HTMLLang:         meta.HTMLLang(),
				Direction:        meta.Direction(),
				Stored:           before,
			}
			if prefs != nil {
				after, err := prefs.Load(ctx)
				if err != nil {
					return commandError(err, "read preference")
				}
				out.Saved = after != before
			}

			if a.jsonOut {
				return a.printJSON(out)
			}
			fmt.Fprintf(a.stdout, "%s\n", resolved)
			fmt.Fprintf(a.stdout, "  html lang: %s (%s)\n", out.HTMLLang, out.Direction)
			if out.Saved {
				fmt.Fprintf(a.stdout, "  preference saved: %s\n", resolved.Language)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "/", "Request path")
	cmd.Flags().StringVar(&accept, "accept-language", "", "Accept-Language header value")
	cmd.Flags().StringVar(&stored, "stored", "", "Simulated stored preference")
	cmd.Flags().StringVar(&client, "client", "", "Client key in the configured preference store")
	return cmd
}

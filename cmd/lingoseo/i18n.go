package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/config"
	"github.com/ZaguanLabs/lingoseo/content"
	"github.com/ZaguanLabs/lingoseo/logging"
)

func newI18nCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "i18n",
		Short: "Check and fill translation tables",
	}
	cmd.AddCommand(newI18nCheckCmd(a), newI18nFillCmd(a))
	return cmd
}

func newI18nCheckCmd(a *app) *cobra.Command {
	var (
		strict  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare every language's table with the default language's",
		Long: `Report keys that are missing, blank, extra or of a different shape in
each language compared with the default language. Missing keys still
render through the default-language fallback; --strict makes any
incomplete language an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			_, tables, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}
			diffs := lingoseo.Completeness(a.catalog, tables)

			if a.jsonOut {
				if err := a.printJSON(diffs); err != nil {
					return err
				}
			} else {
				printDiffs(a, diffs, verbose)
			}

			var incomplete []string
			for _, d := range diffs {
				if !d.Complete() {
					incomplete = append(incomplete, string(d.Language))
				}
			}
			if strict && len(incomplete) > 0 {
				return usageError(fmt.Errorf("translations incomplete: %s", strings.Join(incomplete, ", ")))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a language is missing keys")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List the affected keys")
	return cmd
}

func printDiffs(a *app, diffs []*lingoseo.TableDiff, verbose bool) {
	for _, d := range diffs {
		s := d.Stats()
		state := "complete"
		if !d.Complete() {
			state = "incomplete"
		}
		fmt.Fprintf(a.stdout, "%-5s %-10s missing=%d empty=%d extra=%d mismatched=%d\n",
			d.Language, state, s.Missing, s.Empty, s.Extra, s.Mismatched)
		if !verbose {
			continue
		}
		for _, group := range []struct {
			mark string
			keys []string
		}{{"-", d.Missing}, {"~", d.Empty}, {"+", d.Extra}, {"!", d.Mismatched}} {
			for _, key := range group.keys {
				fmt.Fprintf(a.stdout, "  %s %s\n", group.mark, key)
			}
		}
	}
}

type fillOutput struct {
	Language lingoseo.Language `json:"language"`
	Overlay  string            `json:"overlay,omitempty"`
	Filled   []string          `json:"filled"`
	Skipped  []string          `json:"skipped"`
}

func newI18nFillCmd(a *app) *cobra.Command {
	var (
		langs       []string
		batchSize   int
		style       string
		siteContext string
		exclude     []string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Machine-translate missing keys into {lang}.overlay.json",
		Long: `Translate keys that are missing or blank in a language's table from the
default language's table and write them to {locales_dir}/{lang}.overlay.json.
Source tables are never modified; overlays only supply keys a source table
lacks. Requires OPENAI_API_KEY unless --dry-run is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := a.logger(logging.ProviderModule)

			targets, err := a.fillTargets(langs)
			if err != nil {
				return err
			}
			_, tables, err := a.resolver(ctx)
			if err != nil {
				return err
			}
			reference := tables[a.catalog.Default()]

			if dryRun {
				var out []fillOutput
				for _, lang := range targets {
					d := lingoseo.DiffTables(reference, tables[lang])
					keys := append(append([]string{}, d.Missing...), d.Empty...)
					out = append(out, fillOutput{Language: lang, Filled: keys, Skipped: []string{}})
					if !a.jsonOut {
						fmt.Fprintf(a.stdout, "%-5s %d keys to translate\n", lang, len(keys))
					}
				}
				if a.jsonOut {
					return a.printJSON(out)
				}
				return nil
			}

			translator, err := a.cfg.Translator()
			if err != nil {
				if errors.Is(err, config.ErrNoAPIKey) {
					return usageError(err)
				}
				return commandError(err, "configure translator")
			}

			opts := lingoseo.FillOptions{
				BatchSize:     batchSize,
				Style:         lingoseo.TranslationStyle(style),
				Context:       siteContext,
				ExcludedTerms: exclude,
			}

			var out []fillOutput
			for _, lang := range targets {
				res, err := lingoseo.FillMissing(ctx, translator, a.catalog, reference, tables[lang], lang, opts)
				if err != nil {
					return commandError(err, "fill "+string(lang))
				}
				entry := fillOutput{Language: lang, Filled: res.Filled, Skipped: res.Skipped}
				if len(res.Filled) > 0 {
					path, err := a.writeOverlay(lang, res.Overlay)
					if err != nil {
						return commandError(err, "write overlay for "+string(lang))
					}
					entry.Overlay = path
				}
				logger.Info("language filled", "language", lang, "filled", len(res.Filled), "skipped", len(res.Skipped))
				out = append(out, entry)
				if !a.jsonOut {
					fmt.Fprintf(a.stdout, "%-5s filled=%d skipped=%d %s\n", lang, len(res.Filled), len(res.Skipped), entry.Overlay)
				}
			}
			if a.jsonOut {
				return a.printJSON(out)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&langs, "lang", "l", nil, "Languages to fill (default: every non-default language)")
	cmd.Flags().IntVar(&batchSize, "batch-size", lingoseo.DefaultFillBatchSize, "Texts per provider request")
	cmd.Flags().StringVar(&style, "style", string(lingoseo.StyleMarketing), "Register: formal, neutral, casual or marketing")
	cmd.Flags().StringVar(&siteContext, "context", "", "What the site is about, passed to the translator")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Terms to keep untranslated")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only count the keys that would be translated")
	return cmd
}

// fillTargets validates --lang or defaults to every non-default language.
func (a *app) fillTargets(codes []string) ([]lingoseo.Language, error) {
	if len(codes) == 0 {
		var out []lingoseo.Language
		for _, lang := range a.catalog.Languages() {
			if lang != a.catalog.Default() {
				out = append(out, lang)
			}
		}
		return out, nil
	}
	out := make([]lingoseo.Language, 0, len(codes))
	for _, code := range codes {
		lang, err := a.language(code)
		if err != nil {
			return nil, err
		}
		if lang == a.catalog.Default() {
			return nil, usageError(fmt.Errorf("%s is the default language and has nothing to fill from", lang))
		}
		out = append(out, lang)
	}
	return out, nil
}

// writeOverlay keeps keys from an existing overlay that the new fill did
// not produce, so repeated fills accumulate.
func (a *app) writeOverlay(lang lingoseo.Language, overlay lingoseo.Table) (string, error) {
	existingPath := filepath.Join(a.cfg.LocalesDir, string(lang)+content.OverlaySuffix)
	data, err := os.ReadFile(existingPath)
	switch {
	case err == nil:
		existing, derr := content.Decode(data, content.FormatJSON)
		if derr != nil {
			return "", derr
		}
		lingoseo.MergeMissing(overlay, existing)
	case !errors.Is(err, fs.ErrNotExist):
		return "", err
	}
	return content.WriteOverlay(a.cfg.LocalesDir, lang, overlay)
}

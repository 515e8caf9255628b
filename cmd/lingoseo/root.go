package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/config"
	"github.com/ZaguanLabs/lingoseo/logging"
)

// Error text codes for command failures.
const (
	codeUsage   = "CLI_USAGE"
	codeCommand = "CLI_COMMAND_FAILED"
)

// app holds what every command shares. Configuration is loaded on first
// use so version and help work without a config file.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	jsonOut    bool

	loaded  bool
	cfg     config.Config
	catalog *lingoseo.Catalog
	logs    logging.Provider
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           lingoseo.Name,
		Short:         lingoseo.Description,
		Version:       lingoseo.FullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: lingoseo.yaml in the working directory)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override log.level")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Write machine-readable JSON")

	root.AddCommand(
		newDetectCmd(a),
		newMetaCmd(a),
		newSitemapCmd(a),
		newPrerenderCmd(a),
		newServeCmd(a),
		newI18nCmd(a),
		newVersionCmd(a),
	)
	return root
}

// load reads the configuration once and builds the catalog and loggers.
func (a *app) load() error {
	if a.loaded {
		return nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "build language catalog").WithTextCode(config.CodeInvalid)
	}
	logs, err := cfg.LoggerProvider()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "configure logging").WithTextCode(config.CodeInvalid)
	}

	a.cfg, a.catalog, a.logs, a.loaded = cfg, catalog, logs, true
	return nil
}

func (a *app) logger(module string) logging.Logger {
	return logging.ModuleLogger(a.logs, module)
}

// language validates a code against the catalog.
func (a *app) language(code string) (lingoseo.Language, error) {
	meta, ok := a.catalog.Lookup(code)
	if !ok {
		return "", usageError(fmt.Errorf("%w: %q (supported: %s)", lingoseo.ErrUnsupportedLanguage, code, a.supported()))
	}
	return meta.Code, nil
}

func (a *app) supported() string {
	langs := a.catalog.Languages()
	codes := make([]string, len(langs))
	for i, l := range langs {
		codes[i] = string(l)
	}
	return strings.Join(codes, ", ")
}

// resolver loads every table under locales_dir. Languages that fail to
// load fall back to the default table; a missing default table is fatal.
func (a *app) resolver(ctx context.Context) (*lingoseo.Resolver, map[lingoseo.Language]lingoseo.Table, error) {
	logger := a.logger(logging.ContentModule)
	tables, err := a.cfg.ContentProvider(a.catalog, logger).LoadAll(ctx)
	if err != nil {
		if _, ok := tables[a.catalog.Default()]; !ok {
			return nil, nil, commandError(err, "load translation tables")
		}
		logger.Warn("some translation tables failed to load", "error", err)
	}
	r := lingoseo.NewResolver(a.catalog, tables, lingoseo.WithResolverLogger(a.logger(logging.ResolverModule)))
	return r, tables, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usageError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid arguments").WithTextCode(codeUsage)
}

func commandError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryCommand, msg).WithTextCode(codeCommand)
}

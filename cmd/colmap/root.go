package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"colmap/internal/config"
	"colmap/internal/embed"
	"colmap/internal/logging"
	"colmap/internal/mapper"
)

// app holds state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	stdin   io.Reader

	cfg    *config.Config
	logger logging.Logger
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	a := &app{v: config.New(), stdin: stdin}

	root := &cobra.Command{
		Use:           "colmap",
		Short:         "colmap maps JSON payload keys onto SQL table columns",
		Long:          `Match the top-level keys of a JSON document to the columns of a CREATE TABLE statement using fuzzy and semantic similarity.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./colmap.yaml or $HOME/.config/colmap/colmap.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "json", "log format: json or console")
	flags.String("provider", embed.BackendHashing, "embedding provider: hashing, gemini or openai")
	flags.String("model", "", "embedding model (provider default when empty)")

	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("embedding.provider", flags.Lookup("provider"))
	_ = a.v.BindPFlag("embedding.model", flags.Lookup("model"))

	root.AddCommand(
		newMapCmd(a),
		newColumnsCmd(a),
		newKeysCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger.With("command", cmd.Name())

	return nil
}

// newMapper wires the configured embedding provider. The provider is built on
// first use, so fuzzy-only runs never touch a remote backend.
func (a *app) newMapper() (*mapper.Mapper, *embed.Handle) {
	handle := embed.New(a.cfg.EmbedConfig(), a.logger)
	return mapper.New(handle, a.logger), handle
}

// closeHandle releases the provider chain, including a shared cache
// connection.
func (a *app) closeHandle(h *embed.Handle) {
	if err := h.Close(); err != nil {
		a.logger.Warn("closing embedding provider", "error", err)
	}
}

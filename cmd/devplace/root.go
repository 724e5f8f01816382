package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"devplace/internal/config"
	"devplace/internal/httpapi"
	"devplace/internal/logging"
	"devplace/internal/placement"
	"devplace/pkg/types"
)

// globalFlags are the persistent flags shared by every subcommand. Empty
// values leave the config file (or its defaults) in charge.
type globalFlags struct {
	configPath  string
	logLevel    string
	logFile     string
	accelerator string
	modelsDir   string
}

func newRootCmd() *cobra.Command {
	var (
		gf  globalFlags
		cfg config.Config
	)
	root := &cobra.Command{
		Use:           "devplace",
		Short:         "Probe accelerators, suggest batch sizes and place models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&gf.configPath, "config", "", "Config file (yaml, json or toml); defaults to the first of devplace.{yaml,toml,json} or ~/.config/devplace/config.*")
	root.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&gf.logFile, "log-file", "", "Also write JSON logs to this file (rotated)")
	root.PersistentFlags().StringVar(&gf.accelerator, "accelerator", "", "auto|cuda|xla|mps|cpu; anything but auto skips host detection")
	root.PersistentFlags().StringVar(&gf.modelsDir, "models-dir", "", "Directory to scan for model files")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(gf)
		if err != nil {
			return err
		}
		cfg = c
		logger, err := logging.Init(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: cmd.ErrOrStderr()})
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		placement.SetLogger(logger)
		httpapi.SetLogger(logger)
		return nil
	}

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Report the detected accelerator capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(cfg, false)
			if err != nil {
				return err
			}
			resp, err := mgr.Probe()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	batchCmd := &cobra.Command{
		Use:   "batch-size",
		Short: "Print the default inference batch size for this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(cfg, false)
			if err != nil {
				return err
			}
			resp, err := mgr.BatchSize()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List the models found in the models directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(cfg, true)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), types.ModelsResponse{Models: mgr.ListModels()})
		},
	}

	var runtime string
	placeCmd := &cobra.Command{
		Use:     "place <model-id>",
		Short:   "Move a model onto the best available accelerator",
		Example: "  devplace place tinyllama.Q4_K_M.gguf --xla=false\n  devplace place model.gguf --runtime llama --accelerator cuda",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runtime != "" {
				cfg.Runtime = runtime
			}
			mgr, err := newManager(cfg, true)
			if err != nil {
				return err
			}
			defer func() {
				if err := mgr.Close(); err != nil {
					log.Warn().Err(err).Msg("release model")
				}
			}()
			req := types.PlaceRequest{Model: args[0]}
			req.BF16 = boolFlag(cmd, "bf16")
			req.CUDA = boolFlag(cmd, "cuda")
			req.XLA = boolFlag(cmd, "xla")
			rec, err := mgr.Place(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
	placeCmd.Flags().Bool("bf16", true, "Cast to bfloat16 (skipped when --xla is on)")
	placeCmd.Flags().Bool("cuda", true, "Allow placement on a dedicated GPU")
	placeCmd.Flags().Bool("xla", true, "Allow placement on a tensor-processing device")
	placeCmd.Flags().StringVar(&runtime, "runtime", "", "Model runtime: descriptor|llama")

	root.AddCommand(probeCmd, batchCmd, modelsCmd, placeCmd, newServeCmd(&cfg))
	return root
}

// loadConfig resolves the config file, environment and flags, in increasing
// order of precedence.
func loadConfig(gf globalFlags) (config.Config, error) {
	var cfg config.Config
	path := gf.configPath
	if path == "" {
		path, _ = config.Discover()
	}
	if path != "" {
		c, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	cfg.ApplyEnv(os.Getenv)
	if gf.logLevel != "" {
		cfg.LogLevel = gf.logLevel
	}
	if gf.logFile != "" {
		cfg.LogFile = gf.logFile
	}
	if gf.accelerator != "" {
		cfg.Accelerator = gf.accelerator
	}
	if gf.modelsDir != "" {
		cfg.ModelsDir = gf.modelsDir
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// boolFlag returns nil unless the flag was given, so the config defaults apply.
func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

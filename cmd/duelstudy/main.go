// Package main provides the CLI entrypoint for duelstudy.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/duelstudy/internal/analysis"
	"github.com/verte-zerg/duelstudy/internal/config"
	"github.com/verte-zerg/duelstudy/internal/model"
)

const defaultLogLevel = "info"

var (
	surveyPath    string
	metricsDir    string
	outputDir     string
	configPath    string
	logLevel      string
	terminalPlots bool
	exportTable   bool
	participants  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "duelstudy",
		Short:         "Analyze duel game sessions against survey answers",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runAnalysisCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/duelstudy/config.toml)")
	rootCmd.Flags().StringVar(&surveyPath, "survey", config.DefaultSurveyPath, "survey CSV")
	rootCmd.Flags().StringVar(&metricsDir, "metrics", config.DefaultMetricsDir, "directory of per-participant metrics CSVs")
	rootCmd.Flags().StringVar(&outputDir, "out", config.DefaultOutputDir, "chart output directory")
	rootCmd.Flags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&terminalPlots, "terminal-plots", false, "print density plots to the terminal")
	rootCmd.Flags().BoolVar(&exportTable, "export", false, "write the joined table as analysis.csv")
	rootCmd.Flags().BoolVar(&participants, "participants", false, "print one line per participant")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newModesCmd())

	return rootCmd
}

func runAnalysisCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := resolveConfig(cmd, fileCfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		// Sync on a terminal stderr reports EINVAL; nothing useful to do with it.
		_ = log.Sync()
	}()

	res, err := analysis.Run(context.Background(), cfg, cmd.OutOrStdout(), log)
	if err != nil {
		log.Error("analysis failed", zap.Error(err))
		return err
	}
	log.Info("analysis complete",
		zap.Int("participants", res.Participants),
		zap.Int("rows", res.Rows),
		zap.Int("charts", len(res.Charts)))
	return nil
}

func resolveConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.Config {
	applyStringConfig(cmd, "survey", &surveyPath, fileCfg.Paths.Survey)
	applyStringConfig(cmd, "metrics", &metricsDir, fileCfg.Paths.Metrics)
	applyStringConfig(cmd, "out", &outputDir, fileCfg.Paths.Output)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyBoolConfig(cmd, "terminal-plots", &terminalPlots, fileCfg.Report.TerminalPlots)
	applyBoolConfig(cmd, "export", &exportTable, fileCfg.Report.Export)
	applyBoolConfig(cmd, "participants", &participants, fileCfg.Report.Participants)

	return model.Config{
		SurveyPath:    surveyPath,
		MetricsDir:    metricsDir,
		OutputDir:     outputDir,
		LogLevel:      strings.ToLower(strings.TrimSpace(logLevel)),
		TerminalPlots: terminalPlots,
		Export:        exportTable,
		Participants:  participants,
		Modes:         fileCfg.ModeSpecs(),
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core).With(zap.String("run_id", uuid.NewString())), nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := resolveConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the configured mode table",
		Args:  cobra.NoArgs,
		RunE:  runModesCmd,
	}
}

func runModesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return writeModes(cmd.OutOrStdout(), fileCfg.ModeSpecs())
}

func writeModes(w io.Writer, modes []model.ModeSpec) error {
	for _, m := range modes {
		line := fmt.Sprintf("%s\t%s\texclude_calibration=%s", m.Label, m.Bot, strconv.FormatBool(m.ExcludeCalibration))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	var modes strings.Builder
	for _, m := range model.DefaultModes() {
		fmt.Fprintf(&modes, "# [[modes]]\n# label = %q\n# bot = %q\n# exclude_calibration = %t\n#\n", m.Label, m.Bot, m.ExcludeCalibration)
	}
	return fmt.Sprintf(`# duelstudy configuration
# Uncomment a value to enable it. CLI flags override config values.

[paths]
# survey = %q     # Survey CSV
# metrics = %q              # Directory of <alias>.csv session logs
# output = %q              # Chart output directory

[log]
# level = %q                  # debug, info, warn, error

[report]
# terminal-plots = false          # Print density plots to the terminal
# export = false                  # Write analysis.csv next to the charts
# participants = false            # Print one line per participant

# Mode table. Replaces the default below when any entry is set.
%s`,
		config.DefaultSurveyPath,
		config.DefaultMetricsDir,
		config.DefaultOutputDir,
		defaultLogLevel,
		modes.String(),
	)
}

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	_ "time/tzdata"

	"github.com/christopherklint97/studycal/internal/config"
	"github.com/christopherklint97/studycal/internal/course"
	"github.com/christopherklint97/studycal/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studycal",
		Short: "Turn a course's class list into a study calendar",
		Long: "studycal spreads a course's classes over the days you can study, " +
			"splitting long classes across days, and writes the plan as an iCalendar file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (default ~/.config/studycal/config.toml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a course file",
		Args:  cobra.NoArgs,
		RunE:  runSchema,
	})
	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Open config file in your editor",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	})

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.ConfigPath()
}

func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, path, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config, component string) (zerolog.Logger, error) {
	l, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return zerolog.Nop(), err
	}
	return logging.Component(l, component), nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	data, err := course.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func runConfig(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	out := cmd.OutOrStdout()
	bin, err := exec.LookPath(editor)
	if err != nil {
		fmt.Fprintf(out, "Could not open editor %q. Config file is at: %s\n", editor, path)
		return nil
	}
	fmt.Fprintf(out, "Opening %s with %s...\n", path, editor)

	c := exec.Command(bin, path)
	c.Stdin = cmd.InOrStdin()
	c.Stdout = out
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}

// reportWriter is where human-readable output goes: stdout, unless stdout
// carries the calendar itself.
func reportWriter(cmd *cobra.Command, output string) io.Writer {
	if output == "-" {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

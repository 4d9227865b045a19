package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-frame-rewrite/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gfr configuration",
	Long: `Guides you through setting up gfr configuration step by step.
Creates a config file with the default graph format, render format and
event log location.

Use non-interactive mode with flags:
  gfr init --format yaml --render-format svg --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

func init() {
	initCmd.Flags().String("format", "", "Default graph format (yaml or binary)")
	initCmd.Flags().String("render-format", "", "Render output format (dot, svg, png)")
	initCmd.Flags().String("events", "", "Event log path (empty disables)")
	initCmd.Flags().Bool("verbose", false, "Enable verbose logging by default")
	initCmd.Flags().BoolP("yes", "y", false, "Write without confirmation")
}

func runInit(cmd *cobra.Command) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	renderFlag, _ := cmd.Flags().GetString("render-format")
	eventsFlag, _ := cmd.Flags().GetString("events")
	verboseFlag, _ := cmd.Flags().GetBool("verbose")
	yesFlag, _ := cmd.Flags().GetBool("yes")

	cfg := config.DefaultConfig()

	// Non-interactive mode: any config flag provided
	if formatFlag != "" || renderFlag != "" || eventsFlag != "" || verboseFlag {
		if formatFlag != "" {
			cfg.DefaultFormat = config.Format(formatFlag)
		}
		if renderFlag != "" {
			cfg.RenderFormat = renderFlag
		}
		cfg.EventsPath = eventsFlag
		cfg.Verbose = verboseFlag
		if err := cfg.Validate(); err != nil {
			return err
		}
		return writeConfig(cfg, yesFlag)
	}

	// === INTERACTIVE MODE ===
	formatChoice := string(cfg.DefaultFormat)
	renderChoice := cfg.RenderFormat
	eventsPath := cfg.EventsPath

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default graph format").
				Description("Used when a path has no recognizable extension").
				Options(
					huh.NewOption("YAML (text, diffable)", "yaml"),
					huh.NewOption("Binary (msgpack, fast)", "binary"),
				).
				Value(&formatChoice),
			huh.NewSelect[string]().
				Title("Render output format").
				Options(
					huh.NewOption("SVG", "svg"),
					huh.NewOption("PNG", "png"),
					huh.NewOption("DOT", "dot"),
				).
				Value(&renderChoice),
			huh.NewInput().
				Title("Event log path").
				Description("Rewrite run records are appended here; leave empty to disable").
				Value(&eventsPath),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	cfg.DefaultFormat = config.Format(formatChoice)
	cfg.RenderFormat = renderChoice
	cfg.EventsPath = eventsPath
	if err := cfg.Validate(); err != nil {
		return err
	}
	return writeConfig(cfg, yesFlag)
}

func writeConfig(cfg *config.Config, skipConfirm bool) error {
	path := config.ConfigFilePath()

	if !skipConfirm {
		confirmed := true
		confirm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Write configuration to %s?", path)).
					Value(&confirmed),
			),
		)
		if err := confirm.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !confirmed {
			return nil
		}
	}

	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Printf("Configuration written to %s\n", path)
	return nil
}

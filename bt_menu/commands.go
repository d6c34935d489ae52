package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/storskegg/bt-menu/internal/logging"
)

// Global flags
var (
	flagConfig   string
	flagDebug    bool
	flagFrontend string
)

// Subcommand flags
var (
	listScan   bool
	listJSON   bool
	deviceScan bool
	exportScan bool
)

// app is built once per invocation in the persistent pre-run hook.
var app *App

var rootCmd = &cobra.Command{
	Use:   "bt-menu [-- launcher args]",
	Short: "Bluetooth device menu for rofi and the terminal",
	Long: `Lists paired and nearby Bluetooth devices through bluetoothctl and
connects, disconnects or forgets the one you pick.

Without a subcommand the menu opens: a rofi/dmenu launcher when run from a
bar or keybinding, a terminal table when stdin and stdout are terminals.
Arguments after -- are passed to the launcher.

Examples:
  bt-menu                          # Open the menu
  bt-menu list --scan              # Scan, then print the device list
  bt-menu connect "WH-1000XM4"     # Connect by name or address
  bt-menu -- -theme-str 'window {width: 30%;}'`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMenuCmd,
}

var menuCmd = &cobra.Command{
	Use:   "menu [-- launcher args]",
	Short: "Open the device menu (default)",
	Args:  cobra.ArbitraryArgs,
	RunE:  runMenuCmd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the discovered devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		devices, err := app.session.Discover(cmd.Context(), listScan)
		if err != nil {
			return err
		}
		if listJSON {
			return writeJSON(cmd.OutOrStdout(), devices)
		}
		return writeTable(cmd.OutOrStdout(), devices)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the discovered devices to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := app.session.Discover(cmd.Context(), exportScan)
		if err != nil {
			return err
		}
		if err := exportJSON(args[0], devices); err != nil {
			return fmt.Errorf("export %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d devices written to %s\n", len(devices), filepath.Clean(args[0]))
		return nil
	},
}

// deviceCommand builds a subcommand that resolves one device and runs op on it.
func deviceCommand(use, short string, op func(*App) deviceAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name|address>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dev, err := app.resolve(ctx, args[0], deviceScan)
			if err != nil {
				return err
			}
			res, err := op(app)(ctx, dev)
			if res.Action != "" {
				fmt.Fprintln(cmd.OutOrStdout(), app.describe(dev, res))
			}
			return err
		},
	}
}

func init() {
	rootCmd.PersistentPreRunE = setup

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/bt-menu/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Debug logging (to stderr when no log dir is configured)")
	rootCmd.PersistentFlags().StringVar(&flagFrontend, "frontend", "", "Menu frontend: auto, rofi or tui")

	listCmd.Flags().BoolVar(&listScan, "scan", false, "Scan for nearby devices first")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	exportCmd.Flags().BoolVar(&exportScan, "scan", false, "Scan for nearby devices first")

	connectCmd := deviceCommand("connect", "Pair if needed, then connect a device", func(a *App) deviceAction { return a.connect })
	disconnectCmd := deviceCommand("disconnect", "Disconnect a device", func(a *App) deviceAction { return a.disconnect })
	toggleCmd := deviceCommand("toggle", "Connect or disconnect a device", func(a *App) deviceAction { return a.toggle })
	forgetCmd := deviceCommand("forget", "Remove a paired device", func(a *App) deviceAction { return a.forget })
	for _, c := range []*cobra.Command{connectCmd, disconnectCmd, toggleCmd, forgetCmd} {
		c.Flags().BoolVar(&deviceScan, "scan", false, "Scan for nearby devices before resolving")
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(menuCmd, listCmd, exportCmd)
}

// setup loads config, starts logging and builds the app.
func setup(cmd *cobra.Command, args []string) error {
	cfg, cfgErr := loadConfig(flagConfig)
	if flagFrontend != "" {
		cfg.Menu.Frontend = flagFrontend
	}

	logging.Init(logging.Config{
		LogDir: expandHome(cfg.Log.Dir),
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Debug:  flagDebug,
		Stderr: cmd.ErrOrStderr(),
	})
	if cfgErr != nil {
		menuLog.Warn("config_invalid", "error", cfgErr)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v (using defaults)\n", cfgErr)
	}

	var passthrough []string
	if cmd == rootCmd || cmd == menuCmd {
		passthrough = args
	}

	a, err := newApp(cfg, translations(localeFromEnv()), passthrough)
	if err != nil {
		return err
	}
	app = a
	return nil
}

func runMenuCmd(cmd *cobra.Command, _ []string) error {
	frontend, err := chooseFrontend(app.cfg.Menu.Frontend, interactive())
	if err != nil {
		return err
	}
	menuLog.Debug("menu_start", "frontend", frontend)
	return app.run(cmd.Context(), frontend)
}

// run opens the chosen frontend.
func (a *App) run(ctx context.Context, frontend string) error {
	if frontend == frontendTUI {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("creating screen: %w", err)
		}
		return a.runTUI(ctx, screen)
	}
	return a.runMenu(ctx)
}

// chooseFrontend resolves "auto" to the terminal table when interactive.
func chooseFrontend(setting string, interactive bool) (string, error) {
	switch setting {
	case frontendRofi, frontendTUI:
		return setting, nil
	case frontendAuto, "":
		if interactive {
			return frontendTUI, nil
		}
		return frontendRofi, nil
	}
	return "", fmt.Errorf("unknown frontend %q (want auto, rofi or tui)", setting)
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lixenwraith/marquee/audio"
	"github.com/lixenwraith/marquee/config"
	"github.com/lixenwraith/marquee/constants"
	"github.com/lixenwraith/marquee/driver"
	"github.com/lixenwraith/marquee/logging"
	"github.com/lixenwraith/marquee/terminal"
)

// ConsoleFactory opens the console for a backend name
type ConsoleFactory func(backend string) (terminal.Console, error)

// NewRootCmd builds the marquee command. A nil v uses the global viper instance
func NewRootCmd(v *viper.Viper, newConsole ConsoleFactory) *cobra.Command {
	if v == nil {
		v = viper.GetViper()
	}

	cmd := &cobra.Command{
		Use:   "marquee",
		Short: "Scroll a line of text in place on the terminal",
		Long: "marquee prompts for a line, clears the screen and rotates the line at a fixed\n" +
			"position until interrupted (Ctrl-C, or Esc with the tcell backend).\n" +
			"With --text a single line is scrolled without prompting.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.BindFlags(v, cmd.PersistentFlags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, v, newConsole)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(config.KeyText, "", "Scroll this line once instead of prompting")
	flags.Int(config.KeyDelay, constants.DefaultDelayMs, "Milliseconds between rotations")
	flags.String(config.KeyDirection, "left", "Scroll direction: left or right")
	flags.Int(config.KeyColumn, constants.DefaultColumn, "Anchor column (0-indexed)")
	flags.Int(config.KeyRow, constants.DefaultRow, "Anchor row (0-indexed)")
	flags.Int(config.KeyFrames, 0, "Stop each run after this many rotations (0 runs until interrupted)")
	flags.String(config.KeyBackend, terminal.BackendANSI, "Terminal backend: ansi or tcell")
	flags.Bool(config.KeyChime, false, "Chime each time the line completes a full rotation")
	flags.Bool(config.KeyDebug, false, "Enable debug logging to file")
	flags.String(config.KeyLogFile, "", "Set logfile (default logs/marquee.log)")
	flags.String(config.KeyLogLevel, "info", "Log level: trace, debug, info, warn, error")
	flags.String(config.KeyConfigDir, "", "Directory holding marquee.yaml")

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, newConsole ConsoleFactory) error {
	settings, err := config.Load(v, v.GetString(config.KeyConfigDir))
	if err != nil {
		return err
	}

	base, err := settings.MarqueeConfig()
	if err != nil {
		return err
	}

	log, closer, err := logging.Setup(logging.Options{
		Enabled: settings.Debug,
		Path:    settings.LogFile,
		Level:   settings.LogLevel,
	})
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	console, err := newConsole(settings.Backend)
	if err != nil {
		return err
	}
	if err := console.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer console.Fini()

	loop := &driver.Loop{
		Console: console,
		Base:    base,
		Log:     log.With().Str("backend", settings.Backend).Logger(),
	}

	if settings.Chime {
		if chime := startChime(log); chime != nil {
			defer chime.Cleanup()
			loop.Chime = chime
		}
	}

	if settings.Text != "" {
		return loop.RunOnce(cmd.Context(), settings.Text)
	}
	return loop.Run(cmd.Context())
}

// startChime opens the speaker; audio is optional so failure only disables it
func startChime(log zerolog.Logger) *audio.Chime {
	chime := audio.NewChime()
	if err := chime.Initialize(); err != nil {
		log.Warn().Err(err).Msg("audio initialization failed, continuing without chime")
		return nil
	}
	return chime
}

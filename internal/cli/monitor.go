package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"eventbridge/internal/host"
	"eventbridge/internal/player"
	"eventbridge/internal/script"
	"eventbridge/internal/ui"
)

// defaultMonitorLog keeps log output off the terminal the monitor draws on
const defaultMonitorLog = "eventbridge.log"

func newMonitorCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "monitor <script>",
		Short:   "Play a script in an interactive terminal monitor",
		Example: "  eventbridge monitor events.yaml\n  eventbridge --bridge monitor events.toml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			steps, err := script.Load(args[0])
			if err != nil {
				return err
			}
			if cfg.Log.File == "" {
				cfg.Log.File = defaultMonitorLog
			}

			rt, ctx, err := setup(cmd, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			ph := host.NewProgramHost(nil)
			bus := rt.newBus(ph)

			model := ui.NewModel(ui.Options{
				Title:   args[0],
				Bridge:  cfg.Bus.BridgeToHost,
				History: cfg.Monitor.History,
				Logger:  &rt.log,
			})
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			model.SetProgram(program)
			ph.Attach(program)

			p := player.New(bus, player.Options{
				Resolver: ph,
				Observer: ui.NewProgramObserver(program),
				Interval: cfg.Monitor.Interval.Std(),
				Logger:   &rt.log,
			})
			go func() {
				err := p.Play(ctx, steps)
				if err != nil {
					rt.log.Error().Err(err).Msg("playback stopped")
				}
				program.Send(ui.PlaybackDoneMsg{Err: err, Stats: p.Stats()})
			}()

			rt.log.Info().Str("script", args[0]).Int("steps", len(steps)).Msg("monitor started")
			_, err = program.Run()
			// stop a playback still in progress before returning
			rt.stop()
			return err
		},
	}
}

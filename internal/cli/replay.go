package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"eventbridge/internal/domain"
	"eventbridge/internal/host"
	"eventbridge/internal/player"
	"eventbridge/internal/script"
	"eventbridge/internal/ui/views"
)

func newReplayCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "replay <script>",
		Short:   "Play a script headlessly and print a summary",
		Example: "  eventbridge replay events.yaml\n  eventbridge --bridge replay events.ndjson",
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

			rt, ctx, err := setup(cmd, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			rec := host.NewRecorder()
			lh := host.NewLogHost(rt.log, rec)
			bus := rt.newBus(lh)

			var calls []domain.Invocation
			p := player.New(bus, player.Options{
				Resolver: lh,
				Observer: player.ObserverFunc(func(inv domain.Invocation) {
					calls = append(calls, inv)
					rt.log.Debug().
						Str("event", inv.Event).
						Str("listener", inv.Listener).
						Str("kind", string(inv.Kind)).
						Msg("listener called")
				}),
				Logger: &rt.log,
			})

			playErr := p.Play(ctx, steps)
			writeSummary(cmd.OutOrStdout(), p.Stats(), calls, rec.CountByName(), cfg.Bus.BridgeToHost)
			return playErr
		},
	}
}

// writeSummary prints one row per event name seen in the replay
func writeSummary(w io.Writer, stats []player.EventCount, calls []domain.Invocation, notified map[string]int, bridge bool) {
	type row struct{ dispatched, internal, external, notified int }
	rows := make(map[string]*row)
	get := func(e string) *row {
		if r, ok := rows[e]; ok {
			return r
		}
		r := &row{}
		rows[e] = r
		return r
	}
	for _, s := range stats {
		get(s.Event).dispatched = s.Count
	}
	for _, c := range calls {
		if c.Kind == domain.KindInternal {
			get(c.Event).internal++
		} else {
			get(c.Event).external++
		}
	}
	for e, n := range notified {
		get(e).notified = n
	}

	names := make([]string, 0, len(rows))
	for e := range rows {
		names = append(names, e)
	}
	sort.Strings(names)

	styles := views.NewStyles()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Counters).
		Headers("EVENT", "DISPATCHED", "INTERNAL", "EXTERNAL", "NOTIFIED")
	for _, e := range names {
		r := rows[e]
		notifiedCol := strconv.Itoa(r.notified)
		if !bridge {
			notifiedCol = "-"
		}
		t.Row(e, strconv.Itoa(r.dispatched), strconv.Itoa(r.internal), strconv.Itoa(r.external), notifiedCol)
	}
	fmt.Fprintln(w, t.Render())
}

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"karolbroda.com/residences/internal/sequence"
	"karolbroda.com/residences/internal/store"
)

const simTrack = "text"

var (
	// flags for simulate
	simItems    int
	simDistance float64
	simSteps    int
	simInterval time.Duration
	simBack     float64
	simClick    int
	simVariant  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "replay a scroll path headlessly",
	Long: `replays a scroll path against a pinned sequence on a manual clock and prints
every transition together with the settled indices.

the default run scrolls 6 items over 1500 rows in 10 steps, settles, then
scrolls back to 750.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)

		variant, err := sequence.ParseVariant(simVariant)
		if err != nil {
			return err
		}

		result := simulate(simulation{
			Items:        simItems,
			Distance:     simDistance,
			Steps:        simSteps,
			Interval:     simInterval,
			Back:         simBack,
			Click:        simClick,
			Debounce:     cfg.Debounce,
			FadeDuration: cfg.FadeDuration,
			Variant:      variant,
		})
		printSimulation(cmd.OutOrStdout(), result)
		return result.Err
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntVar(&simItems, "items", 6, "number of items in the sequence")
	simulateCmd.Flags().Float64Var(&simDistance, "distance", 1500, "pinned scroll distance")
	simulateCmd.Flags().IntVar(&simSteps, "steps", 10, "equal scroll steps from 0 to the distance")
	simulateCmd.Flags().DurationVar(&simInterval, "interval", 16*time.Millisecond, "time between scroll steps")
	simulateCmd.Flags().Float64Var(&simBack, "back", 750, "offset to scroll back to after settling (negative skips)")
	simulateCmd.Flags().IntVar(&simClick, "click", -1, "item to click after the scroll path (negative skips)")
	simulateCmd.Flags().StringVar(&simVariant, "variant", string(sequence.VariantStackingCards), "cross-fade variant")
}

type simulation struct {
	Items        int
	Distance     float64
	Steps        int
	Interval     time.Duration
	Back         float64
	Click        int
	Debounce     time.Duration
	FadeDuration time.Duration
	Variant      sequence.Variant
}

type simEvent struct {
	At     time.Duration
	Kind   string
	Offset float64
	Detail string
}

type simResult struct {
	Events      []simEvent
	Transitions []sequence.Transition
	Settled     []int
	Final       sequence.TrackState
	Err         error
}

// simulate drives a sequencer on a manual clock, so the outcome depends only
// on the path and never on wall time.
func simulate(sim simulation) simResult {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := sequence.NewManualClock(start)
	scroll := store.NewScrollStore(sim.Distance)

	var res simResult
	elapsed := func() time.Duration { return clock.Now().Sub(start) }

	seq := sequence.New(scroll, sequence.Options{
		Clock:        clock,
		Debounce:     sim.Debounce,
		FadeDuration: sim.FadeDuration,
		Variant:      sim.Variant,
		OnTransition: func(tr sequence.Transition) {
			res.Transitions = append(res.Transitions, tr)
			res.Events = append(res.Events, simEvent{
				At:     elapsed(),
				Kind:   "transition",
				Offset: scroll.Offset(),
				Detail: fmt.Sprintf("%d → %d (%s)", tr.From, tr.To, tr.Cause),
			})
		},
	})
	seq.Mount(sequence.PinRange{Start: 0, Distance: sim.Distance},
		sequence.TrackSpec{Name: simTrack, Count: sim.Items, Labels: true})
	defer seq.Unmount()

	if !seq.Mounted() {
		res.Err = fmt.Errorf("nothing to simulate: %d items over %.0f rows", sim.Items, sim.Distance)
		return res
	}

	target := func() int {
		st, _ := seq.Snapshot(simTrack)
		return st.Target
	}
	settle := func() {
		// a negative debounce disables it, so it adds no settle time
		clock.Advance(max(sim.Debounce, 0) + sim.FadeDuration)
		st, _ := seq.Snapshot(simTrack)
		res.Settled = append(res.Settled, st.Stable)
		res.Events = append(res.Events, simEvent{
			At:     elapsed(),
			Kind:   "settled",
			Offset: scroll.Offset(),
			Detail: fmt.Sprintf("stable %d", st.Stable),
		})
	}
	scrollTo := func(offset float64) {
		scroll.ScrollTo(offset)
		res.Events = append(res.Events, simEvent{
			At:     elapsed(),
			Kind:   "scroll",
			Offset: scroll.Offset(),
			Detail: fmt.Sprintf("target %d", target()),
		})
	}

	steps := max(sim.Steps, 1)
	for i := 1; i <= steps; i++ {
		clock.Advance(sim.Interval)
		scrollTo(sim.Distance * float64(i) / float64(steps))
	}
	settle()

	if sim.Back >= 0 {
		scrollTo(sim.Back)
		settle()
	}

	if sim.Click >= 0 {
		if err := seq.Click(simTrack, sim.Click); err != nil {
			res.Err = err
		} else {
			res.Events = append(res.Events, simEvent{
				At:     elapsed(),
				Kind:   "click",
				Offset: scroll.Offset(),
				Detail: fmt.Sprintf("item %d", sim.Click),
			})
			settle()
		}
	}

	res.Final, _ = seq.Snapshot(simTrack)
	return res
}

func printSimulation(w io.Writer, res simResult) {
	rows := make([][]string, 0, len(res.Events))
	for _, ev := range res.Events {
		rows = append(rows, []string{
			fmt.Sprintf("%dms", ev.At.Milliseconds()),
			ev.Kind,
			fmt.Sprintf("%.1f", ev.Offset),
			ev.Detail,
		})
	}

	fmt.Fprintln(w, renderTable([]string{"t", "event", "offset", "detail"}, rows))
	fmt.Fprintf(w, "transitions: %d\n", len(res.Transitions))
	fmt.Fprintf(w, "settled:     %v\n", res.Settled)
	fmt.Fprintf(w, "final:       stable %d, target %d of %d\n", res.Final.Stable, res.Final.Target, res.Final.Count)
	if res.Err != nil {
		fmt.Fprintf(w, "error:       %v\n", res.Err)
	}
}

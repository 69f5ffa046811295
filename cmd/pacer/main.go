package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pacer/internal/automation"
	"github.com/san-kum/pacer/internal/config"
	"github.com/san-kum/pacer/internal/ease"
	"github.com/san-kum/pacer/internal/export"
	"github.com/san-kum/pacer/internal/metrics"
	"github.com/san-kum/pacer/internal/pacer"
	"github.com/san-kum/pacer/internal/sim"
	"github.com/san-kum/pacer/internal/storage"
	"github.com/san-kum/pacer/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	from    float64
	to      float64
	step    float64
	clamp   bool
	maxJump float64
	// svg
	svgTrack string
	svgPath  string
	svgOut   string
	svgSize  []int
	// scrub
	trials  int
	updates int
	margin  float64
	seed    int64
	// dump
	dumpAt float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "pacer",
		Short:        "keyframe timeline sampler and player",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "runs-dir", ".pacer", "run storage directory")

	sampleCmd := &cobra.Command{
		Use:   "sample [timeline...]",
		Short: "sample timelines at fixed steps and save the runs",
		Long:  "Each timeline is a YAML file or a group/name preset. Several timelines run concurrently.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  sampleTimelines,
	}
	sampleCmd.Flags().Float64Var(&from, "from", config.DefaultFrom, "first sample time")
	sampleCmd.Flags().Float64Var(&to, "to", config.DefaultFrom+config.DefaultDuration, "last sample time")
	sampleCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "sample interval")
	sampleCmd.Flags().BoolVar(&clamp, "clamp", false, "clamp progress to the keyframe range")
	sampleCmd.Flags().Float64Var(&maxJump, "max-jump", 0, "record a smoothness metric with this jump threshold")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot every sampled value of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVar(&svgTrack, "track", "", "track to render (default: first track)")
	svgCmd.Flags().StringVar(&svgPath, "path", "", "render the x,y trajectory of two values instead of values over time")
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default: stdout)")
	svgCmd.Flags().IntSliceVar(&svgSize, "size", []int{800, 400}, "width,height")

	playCmd := &cobra.Command{
		Use:   "play [timeline...]",
		Short: "play timelines back in the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE:  playTimelines,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scrub script against its timeline",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	scrubCmd := &cobra.Command{
		Use:   "scrub [timeline]",
		Short: "scrub a timeline randomly and check guaranteed keyframes",
		Args:  cobra.ExactArgs(1),
		RunE:  runScrub,
	}
	scrubCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	scrubCmd.Flags().IntVar(&updates, "updates", 200, "updates per trial")
	scrubCmd.Flags().Float64Var(&margin, "margin", 100, "range margin on both sides of the keyframes")
	scrubCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	dumpCmd := &cobra.Command{
		Use:   "dump [timeline...]",
		Short: "print the keyframe tables of timelines",
		Args:  cobra.MinimumNArgs(1),
		RunE:  dumpTimelines,
	}
	dumpCmd.Flags().Float64Var(&dumpAt, "at", math.NaN(), "update to this time before dumping")

	presetsCmd := &cobra.Command{
		Use:   "presets [group]",
		Short: "list timeline presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := config.Groups()
			if len(args) > 0 {
				groups = args
			}
			for _, g := range groups {
				names := config.ListPresets(g)
				if len(names) == 0 {
					fmt.Printf("no presets in group: %s\n", g)
					continue
				}
				fmt.Printf("%s:\n", g)
				for _, n := range names {
					fmt.Printf("  %s/%s\n", g, n)
				}
			}
			return nil
		},
	}

	easesCmd := &cobra.Command{
		Use:   "eases",
		Short: "list easing functions",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("built-in (append .in, .out or .inOut):")
			for _, n := range ease.Default.Names() {
				fmt.Printf("  %s\n", n)
			}
			fmt.Println("gween:")
			for _, n := range ease.GweenNames() {
				fmt.Printf("  gween.%s\n", n)
			}
		},
	}

	easeCmd := &cobra.Command{
		Use:   "ease [name]",
		Short: "draw an easing curve",
		Args:  cobra.ExactArgs(1),
		RunE:  plotEase,
	}

	rootCmd.AddCommand(sampleCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, svgCmd,
		playCmd, scriptCmd, scrubCmd, dumpCmd, presetsCmd, easesCmd, easeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadTimeline resolves ref and applies the sampling flags the user set.
func loadTimeline(cmd *cobra.Command, ref string) (*config.Config, error) {
	cfg, err := config.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}
	flags := cmd.Flags()
	if flags.Lookup("from") != nil && flags.Changed("from") {
		cfg.Sample.From = from
	}
	if flags.Lookup("to") != nil && flags.Changed("to") {
		cfg.Sample.To = to
	}
	if flags.Lookup("step") != nil && flags.Changed("step") {
		cfg.Sample.Step = step
	}
	if flags.Lookup("clamp") != nil && flags.Changed("clamp") {
		cfg.Clamped = clamp
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sampleTimelines(cmd *cobra.Command, args []string) error {
	cfgs := make([]*config.Config, len(args))
	for i, ref := range args {
		cfg, err := loadTimeline(cmd, ref)
		if err != nil {
			return err
		}
		cfgs[i] = cfg
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	jobs := make([]sim.Job, len(cfgs))
	for i, cfg := range cfgs {
		var tr *pacer.Track
		jobs[i] = sim.Job{
			Name: cfg.Name,
			Setup: func(reg *pacer.Registry) error {
				var err error
				tr, err = cfg.Build(reg, nil)
				return err
			},
			Config: sim.Config{From: cfg.Sample.From, To: cfg.Sample.To, Step: cfg.Sample.Step},
			Metrics: func() []sim.Metric {
				ms := metrics.Standard(tr)
				if maxJump > 0 {
					ms = append(ms, metrics.NewSmoothness(maxJump))
				}
				return ms
			},
		}
	}

	fmt.Printf("sampling %d timeline(s)...\n", len(jobs))
	start := time.Now()

	results, err := sim.RunBatch(context.Background(), jobs)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))

	for i, result := range results {
		cfg := cfgs[i]
		info := storage.RunInfo{
			Name:     cfg.Name,
			Timeline: args[i],
			Units:    cfg.Units,
			Clamped:  cfg.Clamped,
			From:     cfg.Sample.From,
			To:       cfg.Sample.To,
			Step:     cfg.Sample.Step,
		}
		id, err := st.Save(info, result)
		if err != nil {
			return err
		}

		fmt.Printf("\nrun id: %s\n", id)
		fmt.Printf("steps: %d, samples: %d, events: %d\n", result.Steps, len(result.Samples), len(result.Events))
		fmt.Println("metrics:")
		for _, name := range sortedNames(result.Metrics) {
			fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
		}
	}

	return nil
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// runID maps "latest" to the newest stored run.
func runID(st *storage.Store, arg string) (string, error) {
	if arg != "latest" {
		return arg, nil
	}
	meta, err := st.Latest()
	if err != nil {
		return "", err
	}
	return meta.ID, nil
}

func loadRun(arg string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	id, err := runID(st, arg)
	if err != nil {
		return nil, nil, err
	}
	return st.LoadResult(id)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tRANGE\tSTEP\tTRACKS\tEVENTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g..%g %s\t%g\t%d\t%d\n",
			run.ID,
			run.Info.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Info.From,
			run.Info.To,
			run.Info.Units,
			run.Info.Step,
			len(run.Tracks),
			run.Events,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if len(result.Samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("timeline: %s\n", meta.Info.Timeline)
	fmt.Printf("samples: %d\n\n", len(result.Samples))

	for _, track := range result.Tracks() {
		for _, key := range result.Keys(track) {
			_, values := result.Series(track, key)
			if len(values) < 2 {
				continue
			}
			graph := asciigraph.Plot(values,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s.%s vs time", track, key)),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	id, err := runID(st, args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(id)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta.ID, meta.Info, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.Samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteSamplesCSV(os.Stdout, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(svgSize) != 2 {
		return fmt.Errorf("--size wants width,height, got %v", svgSize)
	}

	track := svgTrack
	if track == "" {
		tracks := result.Tracks()
		if len(tracks) == 0 {
			return fmt.Errorf("no data to render")
		}
		track = tracks[0]
	}

	var out string
	if svgPath != "" {
		xKey, yKey, ok := strings.Cut(svgPath, ",")
		if !ok {
			return fmt.Errorf("--path wants two value names, got %q", svgPath)
		}
		out = export.PathToSVG(export.TrackPath(result, track, xKey, yKey), svgSize[0], svgSize[1], "#00ffff")
	} else {
		out = export.ResultToSVG(result, track, svgSize[0], svgSize[1])
	}
	if out == "" {
		return fmt.Errorf("nothing to render for track %q", track)
	}

	if svgOut == "" {
		fmt.Println(out)
		return nil
	}
	if err := os.WriteFile(svgOut, []byte(out), 0644); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", svgOut)
	return nil
}

func buildRegistry(cmd *cobra.Command, refs []string) (*pacer.Registry, []*config.Config, error) {
	reg := pacer.NewRegistry()
	cfgs := make([]*config.Config, 0, len(refs))
	for _, ref := range refs {
		cfg, err := loadTimeline(cmd, ref)
		if err != nil {
			return nil, nil, err
		}
		if _, err := cfg.Build(reg, nil); err != nil {
			return nil, nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	return reg, cfgs, nil
}

func playTimelines(cmd *cobra.Command, args []string) error {
	reg, cfgs, err := buildRegistry(cmd, args)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewPlayer(reg, cfgs[0].Name), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadTimeline(cmd, script.Timeline)
	if err != nil {
		return err
	}
	tr, err := cfg.Build(nil, nil)
	if err != nil {
		return err
	}

	fmt.Printf("script: %s\n", script.Name)
	if script.Description != "" {
		fmt.Printf("  %s\n", script.Description)
	}
	fmt.Println()

	results, runErr := automation.Run(context.Background(), script, tr)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tACTION\tTIME\tVALUES\tEVENTS")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%g\t%s\t%s\n", i+1, r.Action, r.Time, formatValues(r.Values), formatEvents(r.Events))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func formatValues(v pacer.Values) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.3f", k, v[k])
	}
	return strings.Join(parts, " ")
}

func formatEvents(events []sim.EventRecord) string {
	var parts []string
	for _, e := range events {
		if e.Kind == pacer.EventTween {
			continue
		}
		name := e.Kind.String()
		if e.Label != "" {
			name += ":" + e.Label
		} else if e.Key >= 0 {
			name += fmt.Sprintf(":#%d", e.Key)
		}
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func runScrub(cmd *cobra.Command, args []string) error {
	cfg, err := loadTimeline(cmd, args[0])
	if err != nil {
		return err
	}

	scfg := &automation.ScrubConfig{
		NumTrials: trials,
		Updates:   updates,
		Margin:    margin,
		Seed:      seed,
	}

	fmt.Printf("scrubbing %s: %d trials x %d updates (seed %d)\n", cfg.Name, trials, updates, seed)
	results, err := automation.RunScrub(context.Background(), scfg, func() (*pacer.Track, error) {
		return cfg.Build(nil, nil)
	})
	if err != nil {
		return err
	}

	ok, bad := automation.ScrubStats(results)
	fired := 0
	for _, r := range results {
		fired += r.KeyEvents
		if !r.Consistent {
			fmt.Printf("  trial %d: fired %d, expected %d\n", r.TrialID, r.KeyEvents, r.Expected)
		}
	}
	fmt.Printf("consistent: %d, inconsistent: %d, guaranteed key events: %d\n", ok, bad, fired)
	if bad > 0 {
		return fmt.Errorf("%d inconsistent trials", bad)
	}
	return nil
}

func dumpTimelines(cmd *cobra.Command, args []string) error {
	reg, _, err := buildRegistry(cmd, args)
	if err != nil {
		return err
	}
	if !math.IsNaN(dumpAt) {
		reg.UpdateAll(dumpAt)
	}
	fmt.Print(reg.DumpAll())
	return nil
}

func plotEase(cmd *cobra.Command, args []string) error {
	fn, err := ease.Lookup(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.CurveCanvas(fn, 40, 10).String())
	fmt.Println(viz.CurveGraph(fn, 60, 12, args[0]))
	return nil
}

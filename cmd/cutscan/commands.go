package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xuenqlve/cutbrick/analysis"
	"github.com/xuenqlve/cutbrick/brick"
	"github.com/xuenqlve/cutbrick/config"
	"github.com/xuenqlve/cutbrick/cutspec"
	"github.com/xuenqlve/cutbrick/errors"
	"github.com/xuenqlve/cutbrick/event"
	"github.com/xuenqlve/cutbrick/log"
	"github.com/xuenqlve/cutbrick/sink"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cutscan",
		Short:         "Configurable cut selection over tabular records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCmd(), newRunCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var values []float64
	cmd := &cobra.Command{
		Use:   "check <expr>",
		Short: "Parse a cut expression and print its bricks",
		Example: `  cutscan check 'zvtx{nominal=rg(-7,7);narrow=rg(-3,3),wide=rg(-10,10)}'
  cutscan check 'pt{bins=mrg(0.2,0.5,1,2)}' --value 0.7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := cutspec.Compile(args[0])
			if err != nil {
				return err
			}
			set, err := cutspec.Build[float64](spec)
			if err != nil {
				return err
			}
			printSpec(cmd.OutOrStdout(), spec, set)
			for _, v := range values {
				active := set.Filter(v)
				fmt.Fprintf(cmd.OutOrStdout(), "value %g: active=%v status=%s\n", v, active, formatStatus(set.Status()))
			}
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&values, "value", nil, "filter the given values and print the status vector")
	return cmd
}

func printSpec(w io.Writer, spec *cutspec.Spec, set *brick.VariationSet[float64]) {
	fmt.Fprintf(w, "cut %s (length %d, multiple defaults %v)\n", spec.Name, set.Length(), spec.AllowMultipleDefaults)
	for _, b := range spec.Defaults {
		fmt.Fprintf(w, "  default   %s\n", b)
	}
	for _, b := range spec.Variations {
		fmt.Fprintf(w, "  variation %s\n", b)
	}
}

func formatStatus(status []bool) string {
	var sb strings.Builder
	for _, on := range status {
		if on {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func newRunCmd() *cobra.Command {
	var (
		configPath string
		variations []string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured cuts over the configured source",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Log.Path != "" {
				log.Init(cfg.Log.Level, cfg.Log.Path)
			} else if err = log.SetLevel(cfg.Log.Level); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runTask(ctx, cmd.OutOrStdout(), cfg, variations, asJSON)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (toml, json or yaml)")
	cmd.Flags().StringSliceVar(&variations, "variation", nil, "arm a variation instead of the defaults, as cut=variation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runTask(ctx context.Context, w io.Writer, cfg *config.Config, variations []string, asJSON bool) error {
	task, err := analysis.NewTaskFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := task.Close(); closeErr != nil {
			log.Errorf("close task %s: %v", task.Name(), closeErr)
		}
	}()
	for _, v := range variations {
		cut, variation, ok := strings.Cut(v, "=")
		if !ok {
			return errors.Errorf("variation %q is not cut=variation", v)
		}
		if !task.CutSet().ArmVariation(cut, variation) {
			return errors.Errorf("cut %s has no variation %s", cut, variation)
		}
	}

	watchEvents()
	summary, err := task.Run(ctx)
	event.EventAdmin.Wait()
	if asJSON {
		out := struct {
			Run string `json:"run"`
			sink.Summary
		}{Run: task.ID(), Summary: summary}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			return errors.Trace(encErr)
		}
	} else {
		printSummary(w, task.ID(), summary)
	}
	return err
}

var watchOnce sync.Once

// watchEvents 把运行相关事件写入日志
func watchEvents() {
	watchOnce.Do(func() {
		event.EventAdmin.Register(event.RunChanged, func(e event.Event) {
			log.Infof("%s: %v", e, e.Value)
		})
		event.EventAdmin.Register(event.AnalysisPanicExit, func(e event.Event) {
			log.Errorf("%s: %v", e, event.ValueError(e.Value))
		})
	})
}

func printSummary(w io.Writer, run string, s sink.Summary) {
	fmt.Fprintf(w, "run %s: processed %d selected %d failed %d\n", run, s.Processed, s.Selected, s.Failed)
	for _, c := range s.Cuts {
		bits := make([]string, len(c.Bits))
		for i, n := range c.Bits {
			bits[i] = strconv.FormatInt(n, 10)
		}
		fmt.Fprintf(w, "  %-12s %-12s passed %d bits [%s]\n", c.Name, c.Field, c.Passed, strings.Join(bits, " "))
	}
}

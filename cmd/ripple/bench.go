package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ripple-dev/ripple/pkg/reactive"
)

func benchCmd() *cobra.Command {
	var (
		widths  []int
		heights []int
		iters   int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure propagation latency across dependency graphs",
		Long: `Builds width x height grids of memoized cells over one source ref, with
an effect at the end of every chain, then measures how long a source
write takes to propagate through the whole graph.`,
		Run: func(cmd *cobra.Command, args []string) {
			runPropagationBench(widths, heights, iters)
		},
	}

	cmd.Flags().IntSliceVar(&widths, "widths", []int{1, 10, 100}, "chain counts to benchmark")
	cmd.Flags().IntSliceVar(&heights, "heights", []int{1, 10, 100}, "chain depths to benchmark")
	cmd.Flags().IntVar(&iters, "iters", 100, "writes measured per configuration")
	return cmd
}

func runPropagationBench(widths, heights []int, iters int) {
	tbl := table.NewWriter()
	tbl.SetTitle("Ripple propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	var totalRuns uint64

	for _, w := range widths {
		for _, h := range heights {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			src := reactive.NewRef(1)
			for i := 0; i < w; i++ {
				last := reactive.NewComputed(func() any {
					return src.Value().(int) + 1
				})
				for j := 1; j < h; j++ {
					prev := last
					last = reactive.NewComputed(func() any {
						return prev.Value().(int) + 1
					})
				}

				end := last
				reactive.NewEffect(func() any {
					_ = end.Value()
					totalRuns++
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Value().(int) + 1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	fmt.Printf("effect runs: %s\n", humanize.Comma(int64(totalRuns)))
}

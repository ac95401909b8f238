package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/poolkit/pool"
)

var (
	benchRounds int
	benchItems  int
)

// benchNode approximates a container node: a key/value pair plus links.
type benchNode struct {
	key, val uint64
	pad      [2]uint64
}

type benchResult struct {
	Rounds      int     `json:"rounds"`
	Items       int     `json:"items"`
	TotalOps    int64   `json:"total_ops"`
	PoolNsPerOp float64 `json:"pool_ns_per_op"`
	PoolMopsSec float64 `json:"pool_mops_per_sec"`
	HeapNsPerOp float64 `json:"heap_ns_per_op"`
	HeapMopsSec float64 `json:"heap_mops_per_sec"`
	SpeedupPct  float64 `json:"speedup_pct"`
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure raw allocate/free throughput against the Go heap",
	Long: `bench repeatedly fills and drains a working set of fixed-size nodes,
once through a pool allocator and once through the native heap, and
reports nanoseconds per operation for both paths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mp, err := pool.NewMultiPool[benchNode]()
		if err != nil {
			return err
		}
		defer mp.Close()

		totalOps := int64(benchRounds) * int64(benchItems) * 2
		ptrs := make([]*benchNode, benchItems)

		start := time.Now()
		for range benchRounds {
			for i := range ptrs {
				ptr, err := mp.Alloc()
				if err != nil {
					return err
				}
				ptr.key = uint64(i)
				ptrs[i] = ptr
			}
			for i := range ptrs {
				if err := mp.Free(ptrs[i]); err != nil {
					return err
				}
			}
		}
		poolDur := time.Since(start)

		heap := make([]*benchNode, benchItems)
		start = time.Now()
		for range benchRounds {
			for i := range heap {
				heap[i] = &benchNode{key: uint64(i)}
			}
			for i := range heap {
				heap[i] = nil
			}
		}
		heapDur := time.Since(start)

		res := benchResult{
			Rounds:      benchRounds,
			Items:       benchItems,
			TotalOps:    totalOps,
			PoolNsPerOp: float64(poolDur.Nanoseconds()) / float64(totalOps),
			PoolMopsSec: float64(totalOps) / poolDur.Seconds() / 1e6,
			HeapNsPerOp: float64(heapDur.Nanoseconds()) / float64(totalOps),
			HeapMopsSec: float64(totalOps) / heapDur.Seconds() / 1e6,
		}
		res.SpeedupPct = (res.HeapNsPerOp/res.PoolNsPerOp - 1) * 100

		if jsonOut {
			return printJSON(res)
		}
		printInfo("pool: %.4f million ops/sec (%.2f ns/op)\n", res.PoolMopsSec, res.PoolNsPerOp)
		printInfo("heap: %.4f million ops/sec (%.2f ns/op)\n", res.HeapMopsSec, res.HeapNsPerOp)
		printInfo("speedup: %.1f %%\n", res.SpeedupPct)
		printInfo("\n%s", mp.Stats().Report())
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchRounds, "rounds", 1024, "Fill/drain rounds to run")
	benchCmd.Flags().IntVar(&benchItems, "items", 1<<15, "Working set size per round")
	rootCmd.AddCommand(benchCmd)
}

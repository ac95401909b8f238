package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/poolkit/pool"
	"github.com/joshuapare/poolkit/treemap"
)

var (
	churnRounds int
	churnItems  int
)

type churnResult struct {
	Rounds   int        `json:"rounds"`
	Items    int        `json:"items"`
	TotalOps int64      `json:"total_ops"`
	NsPerOp  float64    `json:"ns_per_op"`
	MopsSec  float64    `json:"mops_per_sec"`
	Stats    pool.Stats `json:"pool_stats"`
}

var churnCmd = &cobra.Command{
	Use:   "churn",
	Short: "Run the ordered-map insert/erase workload over the node pool",
	Long: `churn inserts keys 0..items-1 into an ordered map whose nodes come
from the pool allocator, erases them in the same order, and repeats. This
is the workload the allocator is designed for; afterwards every slot must
be back in the pool and the block count must have stopped growing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := treemap.New[uint32, uint32]()
		defer m.Close()

		totalOps := int64(churnRounds) * int64(churnItems) * 2

		start := time.Now()
		for range churnRounds {
			for i := range uint32(churnItems) {
				if err := m.Set(i, i); err != nil {
					return err
				}
			}
			for i := range uint32(churnItems) {
				if _, err := m.Delete(i); err != nil {
					return err
				}
			}
		}
		dur := time.Since(start)

		res := churnResult{
			Rounds:   churnRounds,
			Items:    churnItems,
			TotalOps: totalOps,
			NsPerOp:  float64(dur.Nanoseconds()) / float64(totalOps),
			MopsSec:  float64(totalOps) / dur.Seconds() / 1e6,
			Stats:    m.Stats(),
		}

		if jsonOut {
			return printJSON(res)
		}
		printInfo("%.4f million ops/sec (%.2f ns/op)\n\n", res.MopsSec, res.NsPerOp)
		printInfo("%s", res.Stats.Report())
		return nil
	},
}

func init() {
	churnCmd.Flags().IntVar(&churnRounds, "rounds", 1024, "Insert/erase rounds to run")
	churnCmd.Flags().IntVar(&churnItems, "items", 1<<15, "Keys per round")
	rootCmd.AddCommand(churnCmd)
}

// Command planinfo commits a transform plan against the host device
// profile and prints its decomposition: the stage chain, launch geometry,
// twiddle layout and scratch requirements. Useful for checking how a
// length will be factored before deploying it.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/cwbudde/parfft"
	"github.com/cwbudde/parfft/device"
	"github.com/cwbudde/parfft/kernels"
)

var (
	batches int
	split   bool
)

func main() {
	klog.InitFlags(nil)

	root := &cobra.Command{
		Use:   "planinfo <length>...",
		Short: "show the stage decomposition of one or more transform lengths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				var n int
				if _, err := fmt.Sscanf(arg, "%d", &n); err != nil {
					return fmt.Errorf("invalid length %q", arg)
				}
				if err := describe(n); err != nil {
					return err
				}
			}
			return nil
		},
	}
	root.Flags().IntVarP(&batches, "batches", "b", 1, "committed batch count")
	root.Flags().BoolVar(&split, "split", false, "plan for split complex storage")
	root.Flags().AddGoFlagSet(flag.CommandLine)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "planinfo:", err)
		os.Exit(1)
	}
}

func describe(n int) error {
	q := device.NewHostQueue[float32]()
	storage := parfft.InterleavedComplex
	if split {
		storage = parfft.SplitComplex
	}

	desc, err := parfft.Commit(parfft.Config{
		Length:        n,
		NumTransforms: batches,
		Storage:       storage,
	}, kernels.NewHostRuntime(q))
	if err != nil {
		return fmt.Errorf("length %d: %w", n, err)
	}
	defer desc.Close()

	p := desc.Plan()
	profile := q.Profile()

	fmt.Printf("N=%s  device=%s (sg=%d, %d CU)\n",
		humanize.Comma(int64(n)), profile.Name, profile.SubgroupSize(), profile.ComputeUnits)
	if p.IsPrime {
		fmt.Printf("  prime length, embedded at M=%d (two chains)\n", p.PaddedLength)
	}
	printChain("forward", p.ForwardStages)
	if p.IsPrime {
		printChain("backward", p.BackwardStages)
	}
	fmt.Printf("  transposes: %d per chain\n", len(p.ForwardTransposes))
	fmt.Printf("  chunk: %d of %d batch(es) resident\n", p.NumBatchesInL2, p.NumTransforms)
	fmt.Printf("  twiddles: %s scalars, scratch: %s\n",
		humanize.Comma(int64(p.TwiddleScalars)), humanize.Bytes(uint64(p.ScratchRequirement)))
	fmt.Println()
	return nil
}

func printChain(name string, stages []parfft.Stage) {
	fmt.Printf("  %s chain: %d stage(s)\n", name, len(stages))
	for i, st := range stages {
		factors := make([]string, len(st.Factors))
		for j, f := range st.Factors {
			factors[j] = fmt.Sprint(f)
		}
		fmt.Printf("    [%d] %-9s len=%-5d factors=%-8s batch=%-5d global=%d local=%d\n",
			i, st.Level, st.Length, strings.Join(factors, "x"), st.BatchSize, st.GlobalSize, st.LocalSize)
	}
}

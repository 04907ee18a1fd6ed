package main

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/hupe1980/vfcprobe"
	"github.com/hupe1980/vfcprobe/export"
	"github.com/spf13/cobra"
)

// number marshals non-finite values as null.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

type summary struct {
	Test     string `json:"test"`
	Variable string `json:"variable"`
	Count    int    `json:"count"`
	Mean     number `json:"mean"`
	Std      number `json:"std"`
	Min      number `json:"min"`
	Max      number `json:"max"`
	S2       number `json:"s2"`
	S10      number `json:"s10"`
}

// maxSignificantBits is reported when every sample is identical.
const maxSignificantBits = 53

func summarize(s export.Series) summary {
	out := summary{Test: s.Test, Variable: s.Variable, Count: len(s.Values)}
	if len(s.Values) == 0 {
		return out
	}

	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, v := range s.Values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		sum += v
	}
	mean := sum / float64(len(s.Values))

	var sq float64
	for _, v := range s.Values {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(s.Values)))

	out.Mean, out.Std, out.Min, out.Max = number(mean), number(std), number(lo), number(hi)
	switch {
	case std == 0:
		out.S2 = maxSignificantBits
		out.S10 = number(maxSignificantBits * math.Log10(2))
	default:
		out.S2 = number(-math.Log2(math.Abs(std / mean)))
		out.S10 = number(-math.Log10(math.Abs(std / mean)))
	}
	return out
}

func newInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize every probe of an export",
		Long: `Prints, per (test, variable): sample count, mean, standard deviation, min,
max and the estimated number of significant bits s2 = -log2(|std/mean|).
Compressed exports are detected automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := vfcprobe.ReadFile(args[0])
			if err != nil {
				return err
			}
			summaries := make([]summary, 0, len(series))
			for _, s := range series {
				summaries = append(summaries, summarize(s))
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TEST\tVARIABLE\tN\tMEAN\tSTD\tMIN\tMAX\tS2")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.17g\t%.3g\t%.17g\t%.17g\t%.2f\n",
					s.Test, s.Variable, s.Count,
					float64(s.Mean), float64(s.Std), float64(s.Min), float64(s.Max), float64(s.S2))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

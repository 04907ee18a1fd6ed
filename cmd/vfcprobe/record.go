package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/vfcprobe"
	"github.com/hupe1980/vfcprobe/export"
	"github.com/spf13/cobra"
)

// exit is called on a hash collision unless --allow-collisions is set.
var exit = os.Exit

type recordOptions struct {
	capacity        int
	output          string
	compress        string
	allowCollisions bool
}

func newRecordCmd(root *rootOptions) *cobra.Command {
	opts := &recordOptions{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record test,variable,value lines from stdin and export them",
		Long: `Reads one "test,variable,value" line per observation from stdin. Values use
Go float syntax, including hex floats such as 0x1p-3, NaN and Inf.

The export goes to --output, then $VFC_PROBES_OUTPUT, then stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecord(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.capacity, "capacity", vfcprobe.DefaultCapacity, "number of table slots (default $VFC_PROBES_CAPACITY or 10000)")
	f.StringVarP(&opts.output, "output", "o", "", "export path")
	f.StringVar(&opts.compress, "compress", "none", "export compression (none, lz4, zstd)")
	f.BoolVar(&opts.allowCollisions, "allow-collisions", false, "skip colliding probes instead of exiting")
	return cmd
}

func runRecord(cmd *cobra.Command, root *rootOptions, opts *recordOptions) error {
	logger, err := root.logger(cmd)
	if err != nil {
		return err
	}
	compression, err := export.ParseCompression(opts.compress)
	if err != nil {
		return err
	}

	policy := vfcprobe.CollisionAbort
	if opts.allowCollisions {
		policy = vfcprobe.CollisionError
	}

	optFns := []vfcprobe.Option{
		vfcprobe.WithEnv(),
		vfcprobe.WithLogger(logger),
		vfcprobe.WithCollisionPolicy(policy),
		vfcprobe.WithExitFunc(exit),
		vfcprobe.WithExportOptions(export.WithCompression(compression)),
	}
	if cmd.Flags().Changed("capacity") {
		optFns = append(optFns, vfcprobe.WithCapacity(opts.capacity))
	}
	if opts.output != "" {
		optFns = append(optFns, vfcprobe.WithOutputPath(opts.output))
	}

	store, err := vfcprobe.New(optFns...)
	if err != nil {
		return err
	}
	defer store.Close()

	skipped := 0
	err = export.ReadLines(cmd.InOrStdin(), func(line int, raw string) error {
		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "#") {
			return nil
		}
		test, variable, v, err := parseObservation(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := store.Insert(test, variable, v); err != nil {
			if opts.allowCollisions && errors.Is(err, vfcprobe.ErrCollision) {
				skipped++
				return nil
			}
			return fmt.Errorf("line %d: %w", line, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d colliding observations\n", skipped)
	}

	err = store.DumpDefault(cmd.Context())
	if errors.Is(err, vfcprobe.ErrNoOutput) {
		_, err = store.WriteTo(cmd.OutOrStdout())
	}
	return err
}

// parseObservation splits "test,variable,value". The value is the text after
// the last comma.
func parseObservation(line string) (string, string, float64, error) {
	test, rest, ok := strings.Cut(line, ",")
	if !ok {
		return "", "", 0, fmt.Errorf("expected test,variable,value: %q", line)
	}
	variable, raw, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", 0, fmt.Errorf("expected test,variable,value: %q", line)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", "", 0, err
	}
	return strings.TrimSpace(test), strings.TrimSpace(variable), v, nil
}

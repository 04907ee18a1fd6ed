package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hupe1980/vfcprobe/codec"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode VALUE...",
		Short: "Print the export token of each value",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), codec.Encode(v))
			}
			return nil
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode TOKEN...",
		Short: "Print the value and bit pattern of each export token",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				v, err := codec.Decode(arg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%#016x\t%x\n",
					strconv.FormatFloat(v, 'g', -1, 64), math.Float64bits(v), v)
			}
			return nil
		},
	}
}

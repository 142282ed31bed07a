package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cru-genomics/vcf2tab/internal/duckdb"
	"github.com/cru-genomics/vcf2tab/internal/output"
	"github.com/cru-genomics/vcf2tab/internal/region"
)

func newQueryCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "query --db <file.duckdb> <chrom[:start-end]>...",
		Short: "Print stored variants overlapping genomic intervals",
		Long: `Print variants stored with --db that overlap the given intervals.

Intervals use the output's coordinates: 0-based, half-open. A bare
chromosome name selects the whole chromosome.`,
		Example: `  vcf2tab query --db calls.duckdb chr1:9-10
  vcf2tab query --db calls.duckdb 12:25245000-25246000 X`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return &usageError{err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, v.GetString("db"), args)
		},
	}
}

func runQuery(cmd *cobra.Command, dbPath string, args []string) error {
	if dbPath == "" {
		return &usageError{errors.New("--db is required")}
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	intervals := make([]region.Interval, 0, len(args))
	for _, arg := range args {
		iv, err := region.ParseInterval(arg)
		if err != nil {
			return &usageError{err}
		}
		intervals = append(intervals, iv)
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	tw := output.NewTabWriter(cmd.OutOrStdout())
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, iv := range intervals {
		variants, err := store.Overlapping(iv)
		if err != nil {
			return err
		}
		for _, v := range variants {
			if err := tw.Write(v); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

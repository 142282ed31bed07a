// Package main provides the vcf2tab command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cru-genomics/vcf2tab/internal/convert"
	"github.com/cru-genomics/vcf2tab/internal/duckdb"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var _ convert.VariantWriter = (*duckdb.Writer)(nil)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks errors caused by invalid invocation.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	root := newRootCmd(viper.New(), stdout, stderr)
	root.SetArgs(normalizeArgs(args))

	cmd, err := root.ExecuteC()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(stderr)
		cmd.SetOut(stderr)
		_ = cmd.Usage()
		return ExitUsage
	}
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "Hint: Check that the file path is correct\n")
	}
	return ExitError
}

// normalizeArgs rewrites the single-dash -help spelling, which pflag would
// otherwise read as -h -e -l -p.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if arg == "-help" {
			arg = "--help"
		}
		out[i] = arg
	}
	return out
}

func newRootCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	var (
		inputPath  string
		outputPath string
		cfgFile    string
	)

	cmd := &cobra.Command{
		Use:   "vcf2tab -f <input.vcf[.gz]> -o <output.tsv>",
		Short: "Convert VCF variants to 0-based, half-open tab-delimited regions",
		Long: `Convert VCF (1-based, inclusive) variants into a tab-delimited file with
0-based, half-open coordinates.

Multi-allelic records are split into one row per alternate allele, and the
bases shared by the reference and alternate alleles (such as the VCF indel
anchor base) are trimmed from both ends. Chromosome names get a "chr" prefix.`,
		Example: `  vcf2tab -f calls.vcf -o calls.tsv
  vcf2tab -f calls.vcf.gz -o calls.tsv --progress
  vcf2tab -f calls.vcf.gz -o calls.tsv --db calls.duckdb
  zcat calls.vcf.gz | vcf2tab -f - -o -`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &usageError{err}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" || outputPath == "" {
				return &usageError{errors.New("--filename and --outputfile are required")}
			}
			return runConvert(v, inputPath, outputPath, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{err}
	})

	flags := cmd.Flags()
	flags.StringVarP(&inputPath, "filename", "f", "", "VCF file to convert (.gz is decompressed, '-' for stdin)")
	flags.StringVarP(&outputPath, "outputfile", "o", "", "Output tab-delimited file ('-' for stdout)")
	flags.Int("max-lines", 0, "Stop after this many data lines (0 = no limit)")
	flags.Bool("progress", false, "Print a dot every 10 lines and a count every 1000 lines")

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&cfgFile, "config", "", "Config file (default: ~/.vcf2tab.yaml)")
	pflags.String("db", "", "DuckDB database to store normalized variants in")
	pflags.BoolP("verbose", "v", false, "Enable debug logging")

	bindFlags(v, flags, "max-lines", "progress")
	bindFlags(v, pflags, "db", "verbose")

	cmd.AddCommand(newQueryCmd(v))
	cmd.AddCommand(newConfigCmd(v))

	return cmd
}

func runConvert(v *viper.Viper, inputPath, outputPath string, stdout, stderr io.Writer) error {
	logger := newLogger(v.GetBool("verbose"), stderr)
	defer logger.Sync()

	conv := convert.NewConverter(convert.Options{
		MaxLines: v.GetInt("max-lines"),
		Progress: v.GetBool("progress"),
	})
	conv.SetLogger(logger)
	conv.SetProgressOutput(stderr)

	var (
		store    *duckdb.Store
		dbWriter *duckdb.Writer
		extra    []convert.VariantWriter
		source   = sourceKey(inputPath)
	)
	if dbPath := v.GetString("db"); dbPath != "" {
		var err error
		store, err = duckdb.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		store.SetLogger(logger)

		if inputPath != "-" {
			if _, err := os.Stat(inputPath); err != nil {
				return fmt.Errorf("open vcf file: %w", err)
			}
		}
		if err := replaceSource(store, source, logger); err != nil {
			return err
		}
		dbWriter = store.NewWriter(source, 0)
		extra = append(extra, dbWriter)
		logger.Debug("storing variants",
			zap.String("db", store.Path()),
			zap.String("source", source))
	}

	logger.Debug("converting",
		zap.String("input", inputPath),
		zap.String("output", outputPath))

	var err error
	if outputPath == "-" {
		_, err = conv.ConvertTo(inputPath, stdout, extra...)
	} else {
		_, err = conv.ConvertFile(inputPath, outputPath, extra...)
	}
	if err != nil {
		return err
	}

	if store != nil && inputPath != "-" {
		fp, err := duckdb.StatFile(source)
		if err != nil {
			logger.Warn("could not fingerprint input", zap.Error(err))
			return nil
		}
		if err := store.RecordSource(fp, dbWriter.Written()); err != nil {
			return err
		}
	}
	return nil
}

// sourceKey identifies an input in the database: its absolute path, or "-"
// for stdin.
func sourceKey(inputPath string) string {
	if inputPath == "-" {
		return inputPath
	}
	if abs, err := filepath.Abs(inputPath); err == nil {
		return abs
	}
	return inputPath
}

// replaceSource drops the variants stored by an earlier conversion of source.
func replaceSource(store *duckdb.Store, source string, logger *zap.Logger) error {
	sources, err := store.Sources()
	if err != nil {
		return err
	}
	for _, src := range sources {
		if src.Path == source {
			logger.Info("replacing previously stored variants",
				zap.String("source", source),
				zap.Int64("variants", src.Variants),
				zap.Time("converted_at", src.ConvertedAt))
		}
	}
	return store.ClearSource(source)
}

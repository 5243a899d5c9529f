package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gobioact/adapters/chembl"
	"gobioact/adapters/excel"
	"gobioact/adapters/export"
	"gobioact/app"
	"gobioact/domain/activity"
	"gobioact/domain/descriptor"
	"gobioact/domain/stage"
	"gobioact/internal/config"
	"gobioact/internal/container"
	"gobioact/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "gobioact",
		Short:         "Bioactivity descriptor analysis: preprocess, classify, pIC50, descriptors, Mann-Whitney U",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newDemoCmd(),
		newDescriptorsCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// outputFlags control where a run's tables go
type outputFlags struct {
	outDir      string
	xlsxPath    string
	jsonPath    string
	metricsFile string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.outDir, "out", "", "Directory for per-stage CSV tables")
	cmd.Flags().StringVar(&o.xlsxPath, "xlsx", "", "Write every table as a sheet of one workbook")
	cmd.Flags().StringVar(&o.jsonPath, "json", "", "Write the full run result as JSON (- for stdout)")
	cmd.Flags().StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format after the run")
}

// pipelineFlags override the environment-derived pipeline configuration
type pipelineFlags struct {
	descriptors      string
	ceiling          float64
	keepIntermediate bool
	testPotency      bool
}

func (p *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.descriptors, "descriptors", "", "Comma-separated descriptors to test (default: all)")
	cmd.Flags().Float64Var(&p.ceiling, "ceiling", activity.DefaultPotencyCeilingNM, "Potency ceiling in nM applied before pIC50")
	cmd.Flags().BoolVar(&p.keepIntermediate, "keep-intermediate", false, "Keep intermediate-class records")
	cmd.Flags().BoolVar(&p.testPotency, "test-potency", false, "Also compare pIC50 between classes")
}

// apply overlays flags the user actually set. Descriptor names are not
// checked here; the pipeline rejects unknown names before reading records.
func (p *pipelineFlags) apply(cmd *cobra.Command, cfg stage.PipelineConfig) stage.PipelineConfig {
	if cmd.Flags().Changed("descriptors") {
		cfg.Descriptors = nil
		for _, name := range strings.Split(p.descriptors, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Descriptors = append(cfg.Descriptors, descriptor.Name(name))
			}
		}
	}
	if cmd.Flags().Changed("ceiling") {
		cfg.PotencyCeiling = p.ceiling
	}
	if cmd.Flags().Changed("keep-intermediate") {
		cfg.RemoveIntermediate = !p.keepIntermediate
	}
	if cmd.Flags().Changed("test-potency") {
		cfg.TestPotency = p.testPotency
	}
	return cfg
}

func newRunCmd() *cobra.Command {
	var input string
	var pf pipelineFlags
	var of outputFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline over an activity export",
		Long: `Run the full pipeline over an activity export.

The input format follows the file extension:
  .csv, .xlsx  columns activity_id, molecule_chembl_id, canonical_smiles, standard_value, standard_type
  .json        an activity search response ({"activities": [...]}) or a bare array

Example: gobioact run --input acetylcholinesterase.csv --out results --test-potency`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readInput(input)
			if err != nil {
				return fail("Could not read input", err)
			}
			return runPipeline(cmd, records, &pf, &of)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Activity export (.csv, .xlsx or .json)")
	_ = cmd.MarkFlagRequired("input")
	pf.register(cmd)
	of.register(cmd)
	return cmd
}

func newDemoCmd() *cobra.Command {
	gen := testkit.DefaultActivityConfig()
	var pf pipelineFlags
	var of outputFlags

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the pipeline over a synthetic activity set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records := testkit.NewActivityGenerator(gen).Generate()
			return runPipeline(cmd, records, &pf, &of)
		},
	}

	cmd.Flags().Int64Var(&gen.Seed, "seed", gen.Seed, "Random seed for the generator")
	cmd.Flags().IntVar(&gen.Count, "count", gen.Count, "Number of synthetic activities")
	pf.register(cmd)
	of.register(cmd)
	return cmd
}

func newDescriptorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "descriptors",
		Short: "List available descriptors",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, name := range descriptor.All() {
				bold.Fprintf(w, "%-14s", name)
				fmt.Fprintf(w, " %s\n", name.Description())
			}
		},
	}
}

func readInput(path string) ([]activity.RawActivityRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return chembl.NewReader().ReadFile(path)
	case ".csv", ".xlsx":
		return excel.NewDataReader(path).ReadActivities()
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .csv, .xlsx or .json)", filepath.Ext(path))
	}
}

func runPipeline(cmd *cobra.Command, records []activity.RawActivityRecord, pf *pipelineFlags, of *outputFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return fail("Invalid configuration", err)
	}
	c, err := container.New(cfg, container.Options{LogWriter: cmd.ErrOrStderr()})
	if err != nil {
		return fail("Could not initialize", err)
	}
	defer c.Shutdown(context.Background())

	res, err := c.Pipeline.Run(cmd.Context(), pf.apply(cmd, cfg.Pipeline), records)
	if err != nil {
		return fail("Run failed", err)
	}

	w := cmd.OutOrStdout()
	if of.jsonPath != "-" {
		printResult(w, res)
	}
	if err := writeOutputs(w, res, of); err != nil {
		return fail("Could not write outputs", err)
	}
	if of.metricsFile != "" {
		if err := c.Metrics.WriteTextfile(of.metricsFile); err != nil {
			return fail("Could not write metrics", err)
		}
	}
	return nil
}

func resultTables(res *app.RunResult) []export.Table {
	s := res.Snapshots
	return []export.Table{
		export.OriginalTable(s.Original),
		export.CleanedTable(s.Cleaned),
		export.ClassifiedTable(s.Classified),
		export.PotencyTable(s.Potency),
		export.DescriptorTable(s.Descriptors),
		export.ResultsTable(res.Tests),
	}
}

func writeOutputs(w io.Writer, res *app.RunResult, of *outputFlags) error {
	tables := resultTables(res)

	if of.outDir != "" {
		paths, err := export.WriteCSVFiles(of.outDir, tables...)
		if err != nil {
			return err
		}
		if of.jsonPath != "-" {
			success(w, "wrote %d tables to %s", len(paths), of.outDir)
		}
	}
	if of.xlsxPath != "" {
		if err := excel.WriteWorkbook(of.xlsxPath, tables...); err != nil {
			return err
		}
		if of.jsonPath != "-" {
			success(w, "wrote workbook %s", of.xlsxPath)
		}
	}
	if of.jsonPath != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		if of.jsonPath == "-" {
			_, err = w.Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(of.jsonPath, data, 0644)
	}
	return nil
}

package cli

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/foodprint/internal/config"
	"github.com/rshade/foodprint/internal/engine"
	"github.com/rshade/foodprint/internal/engine/batch"
	"github.com/rshade/foodprint/internal/greenops"
	"github.com/rshade/foodprint/internal/ingest"
)

// ErrBatchFailed is returned when at least one diet of a batch failed.
var ErrBatchFailed = errors.New("batch had failures")

// NewBatchCmd creates the batch command, which computes several diet files
// concurrently against one engine.
func NewBatchCmd() *cobra.Command {
	var (
		flags       engineFlags
		concurrency int
		failOnGaps  bool
		exitCode    int
	)

	cmd := &cobra.Command{
		Use:   "batch <diet-file>...",
		Short: "Compute the footprints of several diets",
		Long: `Computes every diet file against a single engine, several at a time.

Each diet is reported on one line with its total CO2e and data gap count,
followed by the element-wise total over all successful diets. A diet that
fails does not stop the others; the command exits non-zero afterwards.`,
		Example: `  # Compute a week of diets
  foodprint batch monday.yaml tuesday.yaml wednesday.yaml

  # Compute with 8 workers and emit one JSON record per diet
  foodprint batch week/*.yaml --concurrency 8 --output ndjson`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := flags.outputFormat()
			if err != nil {
				return err
			}
			if err := validateExitCode(failOnGaps, exitCode); err != nil {
				return err
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = config.GetGlobalConfig().Engine.Concurrency
			}
			eng, err := flags.loadEngine(ctx)
			if err != nil {
				return err
			}

			jobs := make([]batch.Job, 0, len(args))
			for _, path := range args {
				diet, loadErr := ingest.LoadDiet(ctx, path)
				if loadErr != nil {
					return loadErr
				}
				jobs = append(jobs, batch.Job{Name: jobName(path), Diet: diet})
			}

			runner, err := batch.NewRunner(eng, concurrency)
			if err != nil {
				return err
			}
			runner.WithProgressCallback(func(s batch.ProgressSnapshot) {
				logger.Debug().Ctx(ctx).
					Str("operation", "batch").
					Int("completed", s.Completed).
					Int("total", s.Total).
					Float64("percent", s.PercentComplete).
					Dur("eta", s.EstimatedRemaining).
					Msg("batch progress")
			})

			results, err := runner.Run(ctx, jobs, flags.options())
			if err != nil {
				return fmt.Errorf("running batch: %w", err)
			}
			total, err := batch.Total(results)
			if err != nil {
				return fmt.Errorf("summing batch: %w", err)
			}
			if err := renderBatch(cmd.OutOrStdout(), format, results, total, outputPrecision()); err != nil {
				return err
			}

			var (
				failed int
				gaps   []engine.Gap
			)
			for _, r := range results {
				if r.Err != nil {
					failed++
					continue
				}
				gaps = append(gaps, r.Impacts.Gaps...)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d diets failed", ErrBatchFailed, failed, len(results))
			}
			return checkGaps(failOnGaps, exitCode, gaps)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", batch.DefaultConcurrency,
		"number of diets computed at once (defaults to engine.concurrency)")
	cmd.Flags().BoolVar(&failOnGaps, "fail-on-gaps", false, "exit non-zero when reference data is missing")
	cmd.Flags().IntVar(&exitCode, "exit-code", DefaultGapsExitCode, "exit code used by --fail-on-gaps (1-255)")

	return cmd
}

// jobName derives a job name from a diet file path.
func jobName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// batchRecord is the per-diet summary of a batch.
type batchRecord struct {
	Name  string       `json:"name"`
	RunID string       `json:"run_id,omitempty"`
	Total []float64    `json:"total,omitempty"`
	Gaps  []engine.Gap `json:"gaps,omitempty"`
	Error string       `json:"error,omitempty"`
}

func batchRecords(results []batch.Result) []batchRecord {
	out := make([]batchRecord, len(results))
	for i, r := range results {
		out[i] = batchRecord{Name: r.Name}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			continue
		}
		out[i].RunID = r.Impacts.RunID
		out[i].Total = r.Impacts.Total
		out[i].Gaps = r.Impacts.Gaps
	}
	return out
}

// renderBatch writes the batch results and their total to w in format.
func renderBatch(w io.Writer, format string, results []batch.Result, total []float64, precision int) error {
	records := batchRecords(results)
	switch format {
	case outputJSON:
		return writeJSON(w, struct {
			Diets []batchRecord `json:"diets"`
			Total []float64     `json:"total"`
		}{records, total})
	case outputNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encoding diet %s: %w", r.Name, err)
			}
		}
		return enc.Encode(batchRecord{Name: totalLabel, Total: total})
	case outputCSV:
		return renderBatchCSV(w, records, total)
	default:
		return renderBatchTable(w, records, total, precision)
	}
}

func renderBatchCSV(w io.Writer, records []batchRecord, total []float64) error {
	cw := csv.NewWriter(w)
	header := append([]string{"name"}, engine.ResultHeader[:]...)
	header = append(header, "gaps", "error")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	blank := make([]string, engine.ResultWidth)
	for _, r := range records {
		row := blank
		if r.Error == "" {
			row = csvRow(r.Total)
		}
		record := append([]string{r.Name}, row...)
		record = append(record, strconv.Itoa(len(r.Gaps)), r.Error)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing diet %s: %w", r.Name, err)
		}
	}
	record := append([]string{totalLabel}, csvRow(total)...)
	record = append(record, "", "")
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func renderBatchTable(w io.Writer, records []batchRecord, total []float64, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "DIET\tTOTAL(kgCO2e)\tGAPS\tSTATUS\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "----\t-------------\t----\t------\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, r := range records {
		co2e, status := "-", "ok"
		if r.Error != "" {
			status = "error: " + r.Error
		} else {
			co2e = greenops.FormatFloat(rowValue(r.Total, engine.ColTotalCO2e), precision)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Name, co2e, len(r.Gaps), status); err != nil {
			return fmt.Errorf("writing diet %s: %w", r.Name, err)
		}
	}
	if _, err := fmt.Fprintf(tw, "%s\t%s\t\t\n",
		totalLabel, greenops.FormatFloat(rowValue(total, engine.ColTotalCO2e), precision)); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return renderPlainSummary(w, rowValue(total, engine.ColTotalCO2e))
}

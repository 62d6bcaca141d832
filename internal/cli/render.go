package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/foodprint/internal/config"
	"github.com/rshade/foodprint/internal/engine"
	"github.com/rshade/foodprint/internal/greenops"
)

// Output formats.
const (
	outputTable  = "table"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
	outputCSV    = "csv"
)

// Rendering constants.
const (
	tabwriterPadding = 2
	summaryBoxWidth  = 60
	boxPaddingWidth  = 4
	totalLabel       = "TOTAL"
)

// boxBorderColor returns the Lip Gloss color used for summary box borders.
func boxBorderColor() lipgloss.Color { return lipgloss.Color("240") }

// boxTitleColor returns the Lip Gloss color used for summary box titles.
func boxTitleColor() lipgloss.Color { return lipgloss.Color("39") }

// gapColor returns the Lip Gloss color used for data gap counts.
func gapColor() lipgloss.Color { return lipgloss.Color("214") }

// isWriterTerminal reports whether w is an *os.File attached to a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// impactsSummary is the trailing NDJSON record of a computation.
type impactsSummary struct {
	RunID string       `json:"run_id"`
	Total []float64    `json:"total"`
	Gaps  []engine.Gap `json:"gaps,omitempty"`
}

// renderImpacts writes impacts to w in format.
func renderImpacts(w io.Writer, format string, impacts *engine.Impacts, precision int) error {
	switch format {
	case outputJSON:
		return writeJSON(w, impacts)
	case outputNDJSON:
		enc := json.NewEncoder(w)
		for _, item := range impacts.Items {
			if err := enc.Encode(item); err != nil {
				return fmt.Errorf("encoding item %s: %w", item.Code, err)
			}
		}
		return enc.Encode(impactsSummary{RunID: impacts.RunID, Total: impacts.Total, Gaps: impacts.Gaps})
	case outputCSV:
		return renderImpactsCSV(w, impacts)
	default:
		return renderImpactsTable(w, impacts, precision)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// renderImpactsCSV writes one line per item in ResultHeader layout, followed
// by the diet total.
func renderImpactsCSV(w io.Writer, impacts *engine.Impacts) error {
	cw := csv.NewWriter(w)
	header := append([]string{"code", "amount_g", "gross_amount_g"}, engine.ResultHeader[:]...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, item := range impacts.Items {
		record := append([]string{item.Code, formatCSVFloat(item.Amount), formatCSVFloat(item.GrossAmount)},
			csvRow(item.Row)...)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing item %s: %w", item.Code, err)
		}
	}
	var amount, gross float64
	for _, item := range impacts.Items {
		amount += item.Amount
		gross += item.GrossAmount
	}
	total := append([]string{totalLabel, formatCSVFloat(amount), formatCSVFloat(gross)}, csvRow(impacts.Total)...)
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(row []float64) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = formatCSVFloat(v)
	}
	return out
}

func formatCSVFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// renderImpactsTable writes a per-item CO2e breakdown, the diet total, an
// everyday equivalency and the data gaps.
func renderImpactsTable(w io.Writer, impacts *engine.Impacts, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	if _, err := fmt.Fprintf(tw, "CODE\tAMOUNT(g)\tGROSS(g)\tRAW\tPROCESS\tPACKAGING\tTRANSPORT\tTOTAL(kgCO2e)\tGAPS\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "----\t---------\t--------\t---\t-------\t---------\t---------\t-------------\t----\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	var amount, gross float64
	for _, item := range impacts.Items {
		amount += item.Amount
		gross += item.GrossAmount
		if err := writeImpactLine(tw, item.Code, item.Amount, item.GrossAmount, item.Row, len(item.Gaps), precision); err != nil {
			return err
		}
	}
	if err := writeImpactLine(tw, totalLabel, amount, gross, impacts.Total, len(impacts.Gaps), precision); err != nil {
		return err
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	totalCO2e := rowValue(impacts.Total, engine.ColTotalCO2e)
	if isWriterTerminal(w) {
		if err := renderStyledSummary(w, totalCO2e, len(impacts.Gaps), precision); err != nil {
			return err
		}
	} else if err := renderPlainSummary(w, totalCO2e); err != nil {
		return err
	}
	return renderGaps(w, impacts.Gaps)
}

func writeImpactLine(w io.Writer, code string, amount, gross float64, row []float64, gaps, precision int) error {
	gapText := "-"
	if gaps > 0 {
		gapText = strconv.Itoa(gaps)
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		code,
		greenops.FormatFloat(amount, 1),
		greenops.FormatFloat(gross, 1),
		greenops.FormatFloat(rowValue(row, engine.ColRawCO2e), precision),
		greenops.FormatFloat(rowValue(row, engine.ColProcessCO2e), precision),
		greenops.FormatFloat(rowValue(row, engine.ColPackagingCO2e), precision),
		greenops.FormatFloat(rowValue(row, engine.ColTransportCO2e), precision),
		greenops.FormatFloat(rowValue(row, engine.ColTotalCO2e), precision),
		gapText,
	)
	if err != nil {
		return fmt.Errorf("writing row %s: %w", code, err)
	}
	return nil
}

func rowValue(row []float64, col int) float64 {
	if col < len(row) {
		return row[col]
	}
	return 0
}

// equivalencyText returns the everyday equivalency of kgCO2e, or "" when
// the total is too small or not representable.
func equivalencyText(kgCO2e float64) string {
	out, err := greenops.Calculate(kgCO2e)
	if err != nil || out.IsEmpty {
		return ""
	}
	return out.DisplayText
}

func renderPlainSummary(w io.Writer, kgCO2e float64) error {
	text := equivalencyText(kgCO2e)
	if text == "" {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", text); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// renderStyledSummary writes a bordered summary box for TTY output.
func renderStyledSummary(w io.Writer, kgCO2e float64, gaps, precision int) error {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(boxTitleColor())

	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(boxBorderColor()).
		Padding(0, 1).
		Width(summaryBoxWidth)

	var content strings.Builder
	content.WriteString(titleStyle.Render("DIET FOOTPRINT"))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", summaryBoxWidth-boxPaddingWidth))
	content.WriteString("\n\n")
	fmt.Fprintf(&content, "Total: %s kg CO2e per day", greenops.FormatFloat(kgCO2e, precision))
	if text := equivalencyText(kgCO2e); text != "" {
		content.WriteString("\n")
		content.WriteString(text)
	}
	if gaps > 0 {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(gapColor()).
			Render(fmt.Sprintf("%d data gap(s), results are partial", gaps)))
	}

	if _, err := fmt.Fprintln(w, borderStyle.Render(content.String())); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

func renderGaps(w io.Writer, gaps []engine.Gap) error {
	if len(gaps) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nData gaps (%d):\n", len(gaps)); err != nil {
		return fmt.Errorf("writing gaps: %w", err)
	}
	for _, g := range gaps {
		if _, err := fmt.Fprintf(w, "  - %s\n", g); err != nil {
			return fmt.Errorf("writing gaps: %w", err)
		}
	}
	return nil
}

// reductionRecord is one flattened line of a diet reduction.
type reductionRecord struct {
	Kind     string  `json:"kind"`
	Ancestor string  `json:"ancestor,omitempty"`
	Code     string  `json:"code"`
	Amount   float64 `json:"amount"`
}

// Reduction record kinds.
const (
	kindRPC           = "rpc"
	kindTransportless = "transportless"
	kindProcess       = "process"
	kindPackaging     = "packaging"
)

// reductionRecords flattens red into records: RPCs in reduction order, then
// transport-exempt RPCs, then process and packaging facets sorted by
// ancestor and facet.
func reductionRecords(red *engine.DietReduction) []reductionRecord {
	var out []reductionRecord
	for _, r := range red.RPCAmounts {
		out = append(out, reductionRecord{Kind: kindRPC, Code: r.Code, Amount: r.Amount})
	}
	for _, r := range red.TransportlessAmounts {
		out = append(out, reductionRecord{Kind: kindTransportless, Code: r.Code, Amount: r.Amount})
	}
	out = appendFacetRecords(out, kindProcess, red.ProcessAmounts)
	return appendFacetRecords(out, kindPackaging, red.PackagingAmounts)
}

func appendFacetRecords(out []reductionRecord, kind string, amounts engine.FacetAmounts) []reductionRecord {
	for _, ancestor := range slices.Sorted(maps.Keys(amounts)) {
		facets := amounts[ancestor]
		for _, facet := range slices.Sorted(maps.Keys(facets)) {
			out = append(out, reductionRecord{Kind: kind, Ancestor: ancestor, Code: facet, Amount: facets[facet]})
		}
	}
	return out
}

// renderReduction writes red to w in format.
func renderReduction(w io.Writer, format string, red *engine.DietReduction, precision int) error {
	records := reductionRecords(red)
	switch format {
	case outputJSON:
		return writeJSON(w, red)
	case outputNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encoding record %s: %w", r.Code, err)
			}
		}
		return nil
	case outputCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"kind", "ancestor", "code", "amount_g"}); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		for _, r := range records {
			if err := cw.Write([]string{r.Kind, r.Ancestor, r.Code, formatCSVFloat(r.Amount)}); err != nil {
				return fmt.Errorf("writing record %s: %w", r.Code, err)
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return renderReductionTable(w, records, red, precision)
	}
}

func renderReductionTable(w io.Writer, records []reductionRecord, red *engine.DietReduction, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "KIND\tANCESTOR\tCODE\tAMOUNT(g)\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "----\t--------\t----\t---------\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, r := range records {
		ancestor := r.Ancestor
		if ancestor == "" {
			ancestor = "-"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.Kind, ancestor, r.Code, greenops.FormatFloat(r.Amount, precision)); err != nil {
			return fmt.Errorf("writing record %s: %w", r.Code, err)
		}
	}
	if _, err := fmt.Fprintf(tw, "%s\t-\t%s\t%s\n",
		totalLabel, kindRPC, greenops.FormatFloat(red.RPCAmounts.Total(), precision)); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return renderGaps(w, red.Gaps)
}

// outputPrecision returns the configured number of decimals.
func outputPrecision() int {
	return config.GetOutputPrecision()
}

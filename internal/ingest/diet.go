package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/foodprint/internal/engine"
	"github.com/rshade/foodprint/internal/greenops"
	"github.com/rshade/foodprint/internal/logging"
)

// Diet file formats.
const (
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// ErrBadDiet indicates a malformed diet file.
var ErrBadDiet = errors.New("malformed diet")

// dietEntry is one diet line. Amount is in grams unless Unit names another
// mass unit.
type dietEntry struct {
	Code   string  `yaml:"code"`
	Amount float64 `yaml:"amount"`
	Unit   string  `yaml:"unit,omitempty"`
}

func (e dietEntry) item() (engine.DietItem, error) {
	code := strings.TrimSpace(e.Code)
	if code == "" {
		return engine.DietItem{}, fmt.Errorf("%w: empty code", ErrBadDiet)
	}
	unit := strings.TrimSpace(e.Unit)
	if unit == "" || strings.EqualFold(unit, "g") {
		return engine.DietItem{Code: code, Amount: e.Amount}, nil
	}
	kg, err := greenops.NormalizeToKg(e.Amount, unit)
	if err != nil {
		return engine.DietItem{}, fmt.Errorf("%w: %s %v %s: %w", ErrBadDiet, code, e.Amount, unit, err)
	}
	return engine.DietItem{Code: code, Amount: kg * 1000}, nil
}

// FormatForPath picks the diet format from a file extension.
func FormatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatYAML
}

// ParseDiet decodes a diet in the given format and validates its amounts.
func ParseDiet(ctx context.Context, data []byte, format string) (engine.Diet, error) {
	var (
		entries []dietEntry
		err     error
	)
	switch format {
	case FormatCSV:
		entries, err = parseDietCSV(data)
	case FormatYAML:
		err = yaml.Unmarshal(data, &entries)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrBadDiet, err)
		}
	default:
		err = fmt.Errorf("unsupported diet format %q", format)
	}
	if err != nil {
		return nil, err
	}

	diet := make(engine.Diet, 0, len(entries))
	for i, e := range entries {
		item, itemErr := e.item()
		if itemErr != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, itemErr)
		}
		diet = append(diet, item)
	}
	if err = diet.Validate(); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "parse_diet").
		Str("format", format).
		Int("item_count", len(diet)).
		Msg("diet parsed successfully")
	return diet, nil
}

// LoadDiet reads the diet at path, choosing the format by extension.
func LoadDiet(ctx context.Context, path string) (engine.Diet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading diet file: %w", err)
	}
	diet, err := ParseDiet(ctx, data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return diet, nil
}

func parseDietCSV(data []byte) ([]dietEntry, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDiet, err)
	}

	cols := map[string]int{"unit": -1}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	codeCol, hasCode := cols["code"]
	amountCol, hasAmount := cols["amount"]
	if !hasCode || !hasAmount {
		return nil, fmt.Errorf("%w: header must name code and amount columns", ErrBadDiet)
	}
	unitCol := cols["unit"]

	var entries []dietEntry
	for {
		rec, readErr := r.Read()
		if errors.Is(readErr, io.EOF) {
			return entries, nil
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadDiet, readErr)
		}
		line, _ := r.FieldPos(0)
		if codeCol >= len(rec) || amountCol >= len(rec) {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrBadDiet, line, len(rec))
		}
		amount, parseErr := strconv.ParseFloat(strings.TrimSpace(rec[amountCol]), 64)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: line %d amount %q", ErrBadDiet, line, rec[amountCol])
		}
		e := dietEntry{Code: rec[codeCol], Amount: amount}
		if unitCol >= 0 && unitCol < len(rec) {
			e.Unit = rec[unitCol]
		}
		entries = append(entries, e)
	}
}

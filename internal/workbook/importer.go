package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"learnprogress/internal/progress"
)

// ImportConfig describes where vocabulary lives in a spreadsheet or CSV file.
// Columns are spreadsheet letters; an empty optional column is not read.
type ImportConfig struct {
	Path             string
	Sheet            string // first sheet when empty
	TermColumn       string
	DefinitionColumn string
	DifficultyColumn string
	ContextColumn    string
	StartRow         int // 1-based
}

func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TermColumn:       "A",
		DefinitionColumn: "B",
		DifficultyColumn: "C",
		ContextColumn:    "D",
		StartRow:         2,
	}
}

type Row struct {
	Line    int
	Term    string
	Details progress.TermDetails
}

type ImportResult struct {
	Processed int
	Imported  int
	Skipped   int
	Errors    []string
}

// TermSink receives imported terms. *progress.Store satisfies it.
type TermSink interface {
	AddVocabularyTerm(term string, details progress.TermDetails)
}

// ReadRows parses the file at cfg.Path. Blank terms are skipped, not errors.
func ReadRows(cfg ImportConfig) ([]Row, ImportResult, error) {
	cols, err := resolveColumns(cfg)
	if err != nil {
		return nil, ImportResult{}, err
	}
	var raw [][]string
	if strings.ToLower(filepath.Ext(cfg.Path)) == ".csv" {
		raw, err = readCSV(cfg.Path)
	} else {
		raw, err = readXLSX(cfg.Path, cfg.Sheet)
	}
	if err != nil {
		return nil, ImportResult{}, err
	}

	start := cfg.StartRow
	if start < 1 {
		start = 1
	}
	var (
		rows []Row
		res  ImportResult
	)
	for i, rec := range raw {
		line := i + 1
		if line < start {
			continue
		}
		res.Processed++
		term := cell(rec, cols.term)
		if term == "" {
			res.Skipped++
			continue
		}
		rows = append(rows, Row{
			Line: line,
			Term: term,
			Details: progress.TermDetails{
				Definition: cell(rec, cols.definition),
				Difficulty: cell(rec, cols.difficulty),
				Context:    cell(rec, cols.context),
			},
		})
	}
	return rows, res, nil
}

// ImportInto reads cfg and adds every term to dst.
func ImportInto(cfg ImportConfig, dst TermSink) (ImportResult, error) {
	rows, res, err := ReadRows(cfg)
	if err != nil {
		return res, err
	}
	for _, r := range rows {
		dst.AddVocabularyTerm(r.Term, r.Details)
		res.Imported++
	}
	return res, nil
}

type columns struct {
	term, definition, difficulty, context int
}

func resolveColumns(cfg ImportConfig) (columns, error) {
	if strings.TrimSpace(cfg.TermColumn) == "" {
		return columns{}, errors.New("term column is required")
	}
	var (
		out columns
		err error
	)
	if out.term, err = columnIndex(cfg.TermColumn); err != nil {
		return columns{}, err
	}
	if out.definition, err = columnIndex(cfg.DefinitionColumn); err != nil {
		return columns{}, err
	}
	if out.difficulty, err = columnIndex(cfg.DifficultyColumn); err != nil {
		return columns{}, err
	}
	if out.context, err = columnIndex(cfg.ContextColumn); err != nil {
		return columns{}, err
	}
	return out, nil
}

// columnIndex maps "A" to 0. An empty name maps to -1.
func columnIndex(name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1, nil
	}
	n, err := excelize.ColumnNameToNumber(strings.ToUpper(name))
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return n - 1, nil
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

package workbook

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"learnprogress/internal/progress"
)

type sink map[string]progress.TermDetails

func (s sink) AddVocabularyTerm(term string, d progress.TermDetails) { s[term] = d }

func TestImportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	body := "term,definition,difficulty,context\n" +
		"hola,hello,easy,\n" +
		",orphan,,\n" +
		"gato, cat ,easy,el gato duerme\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	cfg := DefaultImportConfig()
	cfg.Path = path

	dst := sink{}
	res, err := ImportInto(cfg, dst)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Processed != 3 || res.Imported != 2 || res.Skipped != 1 {
		t.Fatalf("unexpected result %#v", res)
	}
	if got := dst["gato"]; got.Definition != "cat" || got.Context != "el gato duerme" {
		t.Fatalf("unexpected gato details %#v", got)
	}
}

func TestImportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")
	f := excelize.NewFile()
	rows := [][]any{
		{"Word", "Meaning"},
		{"perro", "dog"},
		{"casa", "house"},
	}
	for i, row := range rows {
		ref, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", ref, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = f.Close()

	cfg := ImportConfig{Path: path, TermColumn: "A", DefinitionColumn: "B", StartRow: 2}
	got, res, err := ReadRows(cfg)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if res.Processed != 2 || len(got) != 2 {
		t.Fatalf("expected 2 rows, got %#v", got)
	}
	if got[0].Term != "perro" || got[0].Details.Definition != "dog" || got[0].Line != 2 {
		t.Fatalf("unexpected first row %#v", got[0])
	}
}

func TestImportRejectsBadColumns(t *testing.T) {
	if _, _, err := ReadRows(ImportConfig{Path: "x.csv"}); err == nil {
		t.Fatalf("expected error without term column")
	}
	if _, _, err := ReadRows(ImportConfig{Path: "x.csv", TermColumn: "1"}); err == nil {
		t.Fatalf("expected error for invalid column name")
	}
}

func TestExportWritesSheets(t *testing.T) {
	at := time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)
	st := progress.State{
		Lessons: map[string]progress.LessonProgress{
			"l1": {LessonID: "l1", Percent: 40, LastInteractionAt: at},
		},
		Vocabulary: map[string]progress.VocabularyStat{
			"hola": {Term: "hola", Definition: "hello", Correct: 3, Incorrect: 1, Familiarity: 0.75, MasteryLevel: 75, NextReviewDate: at},
		},
		Exercises:     map[string]progress.ExerciseResult{},
		StudySessions: map[string]progress.StudySession{},
	}
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := Export(path, st, progress.Metrics{OverallCompletion: 40, VocabularyTotal: 1}); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) != 5 || sheets[0] != SheetSummary {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	vocab, err := f.GetRows(SheetVocabulary)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(vocab) != 2 || vocab[1][0] != "hola" || vocab[1][5] != "75" || vocab[1][6] != "2024-03-14 10:00" {
		t.Fatalf("unexpected vocabulary rows %v", vocab)
	}

	// Exported vocabulary can be re-imported with the report's column layout.
	cfg := ImportConfig{Path: path, Sheet: SheetVocabulary, TermColumn: "A", DefinitionColumn: "B", StartRow: 2}
	rows, _, err := ReadRows(cfg)
	if err != nil || len(rows) != 1 || rows[0].Details.Definition != "hello" {
		t.Fatalf("expected round-trip import, got %#v err=%v", rows, err)
	}
}

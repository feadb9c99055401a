package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Label,Weight,Image\nBebop,650,bebop.jpg\nFLCL,150,flcl.jpg\n", ','},
		{"semicolon", "Label;Weight;Image\nBebop;650;bebop.jpg\nFLCL;150;flcl.jpg\n", ';'},
		{"tab", "Label\tWeight\tImage\nBebop\t650\tbebop.jpg\nFLCL\t150\tflcl.jpg\n", '\t'},
		{"pipe", "Label|Weight|Image\nBebop|650|bebop.jpg\nFLCL|150|flcl.jpg\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Label", "Weight", "Image"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.Label != 0 || mapping.Weight != 1 || mapping.Image != 2 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.Duration != -1 || mapping.Episodes != -1 {
		t.Errorf("expected duration and episodes unmapped, got %+v", mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Poster", " TITLE ", "Watched Episodes", "Duration"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.Image != 0 || mapping.Label != 1 || mapping.Episodes != 2 || mapping.Duration != 3 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.Weight != -1 {
		t.Errorf("expected weight unmapped, got %d", mapping.Weight)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Bebop", "650", "bebop.jpg"})
	if ok {
		t.Error("expected no header")
	}
	if mapping.Label != 0 || mapping.Weight != 1 || mapping.Image != 2 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ParseDuration Tests ───────────────────────────────────

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"24 min per ep", 24},
		{"1 hr 30 min", 90},
		{"2 hr", 120},
		{"1 hr 55 min", 115},
		{"Unknown", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseDuration(tt.in); got != tt.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	csv := "Label,Weight,Image\nCowboy Bebop,650,posters/bebop.jpg\nFLCL,150.5,posters/flcl.jpg\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	e := result.Entries[0]
	if e.Label != "Cowboy Bebop" || e.Weight != 650 || e.ImagePath != "posters/bebop.jpg" {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.ID == "" {
		t.Error("expected entry ID to be assigned")
	}
	if result.Entries[1].Weight != 150.5 {
		t.Errorf("expected weight 150.5, got %v", result.Entries[1].Weight)
	}
}

func TestImportCSVFromReader_NonFiniteWeightsAreRowErrors(t *testing.T) {
	csv := "label,weight,image\nA,NaN,a.png\nB,Inf,b.png\nC,-Inf,c.png\nD,10,d.png\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Entries) != 1 || result.Entries[0].Label != "D" {
		t.Fatalf("expected only D to import, got %+v", result.Entries)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 row errors, got %v", result.Errors)
	}
	for _, e := range result.Errors {
		if !strings.Contains(e, "Invalid weight") {
			t.Errorf("unexpected error %q", e)
		}
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	csv := "Bebop,650,bebop.jpg\nFLCL,150,flcl.jpg\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d (errors: %v)", len(result.Entries), result.Errors)
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	csv := "Name of show,Minutes spent,File name\nBebop,650,bebop.jpg\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d (errors: %v)", len(result.Entries), result.Errors)
	}
}

func TestImportCSVFromReader_DurationTimesEpisodes(t *testing.T) {
	csv := "Title;Duration;Episodes;Poster\n" +
		"Bebop;24 min per ep;26;bebop.jpg\n" +
		"Akira;2 hr 4 min;1;akira.jpg\n" +
		"Dropped;24 min per ep;0;dropped.jpg\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ';')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Weight != 24*26 {
		t.Errorf("expected weight %d, got %v", 24*26, result.Entries[0].Weight)
	}
	if result.Entries[1].Weight != 124 {
		t.Errorf("expected weight 124, got %v", result.Entries[1].Weight)
	}

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "No episodes watched") && strings.Contains(w, "Dropped") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected zero-episode warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_WeightWinsOverDuration(t *testing.T) {
	csv := "Label,Weight,Duration,Episodes,Image\nBebop,10,24 min,26,bebop.jpg\nFLCL,,25 min,6,flcl.jpg\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d (errors: %v)", len(result.Entries), result.Errors)
	}
	if result.Entries[0].Weight != 10 {
		t.Errorf("expected explicit weight 10, got %v", result.Entries[0].Weight)
	}
	if result.Entries[1].Weight != 150 {
		t.Errorf("expected fallback weight 150, got %v", result.Entries[1].Weight)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	csv := "Label,Weight,Image,Duration,Episodes\n" +
		"Good,100,good.jpg,,\n" +
		"BadWeight,abc,bad.jpg,,\n" +
		"Negative,-5,neg.jpg,,\n" +
		"NoImage,100,,,\n" +
		"NoWeight,,x.jpg,,\n" +
		"BadDuration,,y.jpg,forever,3\n" +
		"BadEpisodes,,z.jpg,24 min,many\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Entries) != 1 {
		t.Errorf("expected 1 valid entry, got %d", len(result.Entries))
	}
	if len(result.Errors) != 6 {
		t.Errorf("expected 6 errors, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Weight\nBebop,650\n"), ',')

	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing image column")
	}
	if !strings.Contains(result.Errors[0], "Image") {
		t.Errorf("expected error to mention Image, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyRowsAndLabels(t *testing.T) {
	csv := "Label,Weight,Image\n\n,100,a.jpg\n  ,  ,  \nB,50,b.jpg\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d (errors: %v)", len(result.Entries), result.Errors)
	}
	if result.Entries[0].Label != "Poster 1" {
		t.Errorf("expected default label 'Poster 1', got %q", result.Entries[0].Label)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

// ─── ImportCSV Tests ───────────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shows.csv")
	data := "Label;Weight;Image\nBebop;650;bebop.jpg\nFLCL;150;flcl.jpg\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d (errors: %v)", len(result.Entries), result.Errors)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shows.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Image", "Label", "Weight"},
		{"bebop.jpg", "Bebop", 650},
		{"flcl.jpg", "FLCL", 150},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Label != "Bebop" || result.Entries[0].Weight != 650 {
		t.Errorf("unexpected entry %+v", result.Entries[0])
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/shows.xlsx")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportFile_DispatchesOnExtension(t *testing.T) {
	xlsx := createTestExcel(t, [][]interface{}{
		{"Bebop", 650, "bebop.jpg"},
	})
	if got := ImportFile(xlsx); len(got.Entries) != 1 {
		t.Errorf("expected 1 Excel entry, got %d (errors: %v)", len(got.Entries), got.Errors)
	}

	csvPath := filepath.Join(t.TempDir(), "shows.txt")
	if err := os.WriteFile(csvPath, []byte("Bebop,650,bebop.jpg\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if got := ImportFile(csvPath); len(got.Entries) != 1 {
		t.Errorf("expected 1 CSV entry, got %d (errors: %v)", len(got.Entries), got.Errors)
	}
}

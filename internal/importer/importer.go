// Package importer reads collage manifests from CSV and Excel files. Each row
// names a show, the minutes invested in it and its poster file. Delimiters
// are detected automatically and headers are matched case-insensitively.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/scripttaste/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Entries  []model.Entry
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// Duration and Episodes are the alternative to Weight: minutes per episode
// times episodes watched.
type ColumnMapping struct {
	Label    int
	Weight   int
	Image    int
	Duration int
	Episodes int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "title", "show", "anime", "series"},
	"weight":   {"weight", "minutes", "time", "time invested", "watch time", "total time"},
	"image":    {"image", "poster", "path", "file", "image path", "poster path", "image_path"},
	"duration": {"duration", "episode length", "runtime", "length"},
	"episodes": {"episodes", "watched episodes", "watched_episodes", "eps", "watched"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (label, weight, image) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Weight: -1, Image: -1, Duration: -1, Episodes: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				var slot *int
				switch role {
				case "label":
					slot = &mapping.Label
				case "weight":
					slot = &mapping.Weight
				case "image":
					slot = &mapping.Image
				case "duration":
					slot = &mapping.Duration
				case "episodes":
					slot = &mapping.Episodes
				}
				if *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Weight: 1, Image: 2, Duration: -1, Episodes: -1}, false
	}
	return mapping, true
}

var durationPattern = map[string]*regexp.Regexp{
	"hr":  regexp.MustCompile(`(\d+) hr`),
	"min": regexp.MustCompile(`(\d+) min`),
}

// ParseDuration converts a listing-site duration such as "1 hr 30 min" or
// "24 min per ep" to minutes. Unrecognized text yields 0.
func ParseDuration(s string) int {
	minutes := 0
	for _, unit := range []struct {
		name  string
		scale int
	}{{"hr", 60}, {"min", 1}} {
		if m := durationPattern[unit.name].FindStringSubmatch(s); m != nil {
			n, _ := strconv.Atoi(m[1])
			minutes += unit.scale * n
		}
	}
	return minutes
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts an Entry from a row using the given column mapping.
// A nil entry with no error means the row was skipped on purpose.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, entryCount int) (*model.Entry, string, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Poster %d", entryCount+1)
	}

	imagePath := getCell(row, mapping.Image)
	if imagePath == "" {
		return nil, fmt.Sprintf("%s: Missing image path", rowLabel), ""
	}

	if weightStr := getCell(row, mapping.Weight); weightStr != "" {
		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return nil, fmt.Sprintf("%s: Invalid weight '%s'", rowLabel, weightStr), ""
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, fmt.Sprintf("%s: Invalid weight '%s'", rowLabel, weightStr), ""
		}
		if weight <= 0 {
			return nil, fmt.Sprintf("%s: Weight must be positive", rowLabel), ""
		}
		entry := model.NewEntry(label, weight, imagePath)
		return &entry, "", ""
	}

	episodesStr := getCell(row, mapping.Episodes)
	durationStr := getCell(row, mapping.Duration)
	if episodesStr == "" || durationStr == "" {
		return nil, fmt.Sprintf("%s: Missing weight value", rowLabel), ""
	}
	episodes, err := strconv.Atoi(episodesStr)
	if err != nil || episodes < 0 {
		return nil, fmt.Sprintf("%s: Invalid episode count '%s'", rowLabel, episodesStr), ""
	}
	if episodes == 0 {
		return nil, "", fmt.Sprintf("%s: No episodes watched for '%s', skipping", rowLabel, label)
	}
	minutes := ParseDuration(durationStr)
	if minutes == 0 {
		return nil, fmt.Sprintf("%s: Unrecognized duration '%s'", rowLabel, durationStr), ""
	}

	entry := model.NewEntry(label, float64(minutes*episodes), imagePath)
	return &entry, "", ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports entries from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	imported := ImportCSVFromReader(bytes.NewReader(data), delimiter)
	imported.Warnings = append(result.Warnings, imported.Warnings...)
	return imported
}

// ImportCSVFromReader imports entries from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports entries from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension: .xlsx/.xlsm/.xls go to
// ImportExcel, everything else is read as CSV.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	for _, ext := range []string{".xlsx", ".xlsm", ".xls"} {
		if strings.HasSuffix(lower, ext) {
			return ImportExcel(path)
		}
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Image == -1 {
			missing = append(missing, "Image")
		}
		if mapping.Weight == -1 && (mapping.Duration == -1 || mapping.Episodes == -1) {
			missing = append(missing, "Weight (or Duration and Episodes)")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// Unrecognized header: skip it but keep positional mapping.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		entry, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Entries))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if entry != nil {
			result.Entries = append(result.Entries, *entry)
		}
	}

	return result
}

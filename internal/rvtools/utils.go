package rvtools

import (
	"bytes"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var numberRegex = regexp.MustCompile(`[0-9.]+`)

func parseMemoryMB(s string) int32 {
	if s == "" {
		return 0
	}
	cleanS := strings.ReplaceAll(s, ",", "")
	match := numberRegex.FindString(cleanS)
	if match == "" {
		return 0
	}
	if val, err := strconv.ParseFloat(match, 64); err == nil {
		return int32(val)
	}
	return 0
}

func parseIntOrZero(s string) int32 {
	s = strings.ReplaceAll(s, ",", "")
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return int32(val)
}

// parseFormattedFloat handles thousand separators in RVTools size columns.
func parseFormattedFloat(s string) float64 {
	cleanS := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleanS == "" {
		return 0
	}
	val, err := strconv.ParseFloat(cleanS, 64)
	if err != nil {
		zap.S().Named("rvtools").Warnf("Invalid numeric string: %s", cleanS)
		return 0
	}
	return val
}

func getColumnValue(row []string, colMap map[string]int, key string) string {
	if idx, exists := colMap[key]; exists && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func buildColumnMap(headers []string) map[string]int {
	colMap := make(map[string]int)
	for i, header := range headers {
		key := strings.ToLower(strings.TrimSpace(header))
		colMap[key] = i
	}
	return colMap
}

func readSheet(excelFile *excelize.File, sheets []string, sheetName string) [][]string {
	if !slices.Contains(sheets, sheetName) {
		return [][]string{}
	}

	rows, err := excelFile.GetRows(sheetName)
	if err != nil {
		zap.S().Named("rvtools").Warnf("Could not read %s sheet: %v", sheetName, err)
		return [][]string{}
	}

	return rows
}

// IsExcelFile sniffs the zip magic bytes and verifies the container opens as
// a workbook.
func IsExcelFile(content []byte) bool {
	if len(content) < 2 {
		return false
	}

	if content[0] == 0x50 && content[1] == 0x4B {
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return false
		}
		defer f.Close()
		return true
	}

	return false
}

package docparse

import (
	"regexp"
	"strings"
)

// invoiceItem is one row of the invoice item table.
type invoiceItem struct {
	Number      string
	Description string
	HSCode      string
}

// Row strides. pdftotext flattens each table row onto a fixed number of
// lines: 5 for the invoice layout, 6 for the packing-list layout.
const (
	invoiceRowStride = 5
	packingRowStride = 6
)

var (
	reDigitsOnly = regexp.MustCompile(`^\d+$`)
	reHSCode     = regexp.MustCompile(`^\d{6,10}$`)
)

// itemTableStart locates the first data row: the first purely numeric line
// after a "Description" header anchor. Returns -1 when either anchor is
// missing.
func itemTableStart(lines []string) int {
	descIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "Description") && i < len(lines)-1 {
			descIdx = i
			break
		}
	}
	if descIdx == -1 {
		return -1
	}
	for i := descIdx + 1; i < len(lines); i++ {
		if reDigitsOnly.MatchString(lines[i]) {
			return i
		}
	}
	return -1
}

// extractInvoiceItems walks numeric row markers with the invoice stride.
// Stray lines between rows are tolerated; a line containing "TOTAL" ends the
// table.
func extractInvoiceItems(lines []string) []invoiceItem {
	start := itemTableStart(lines)
	if start == -1 {
		return nil
	}

	var items []invoiceItem
	for i := start; i < len(lines); {
		if !reDigitsOnly.MatchString(lines[i]) {
			if strings.Contains(strings.ToUpper(lines[i]), "TOTAL") {
				break
			}
			i++
			continue
		}
		item := invoiceItem{Number: lines[i]}
		if i+1 < len(lines) {
			item.Description = lines[i+1]
		}
		if i+2 < len(lines) && reHSCode.MatchString(lines[i+2]) {
			item.HSCode = lines[i+2]
		}
		if item.Description != "" {
			items = append(items, item)
		}
		i += invoiceRowStride
	}
	return items
}

// extractPackingItems walks numeric row markers with the packing-list
// stride, collecting descriptions. Unlike the invoice variant it stops at
// the first non-numeric row marker.
func extractPackingItems(lines []string) []string {
	start := itemTableStart(lines)
	if start == -1 {
		return nil
	}

	var descriptions []string
	for i := start; i < len(lines) && reDigitsOnly.MatchString(lines[i]); i += packingRowStride {
		if i+1 < len(lines) {
			descriptions = append(descriptions, lines[i+1])
		}
	}
	return descriptions
}

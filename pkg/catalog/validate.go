package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// requiredKeys lists the catalog keys every record must carry. Optional keys
// (course_name, year, page_size, chapters, notes) are absent on purpose.
var requiredKeys = []string{
	"id",
	"uni_name",
	"margins",
	"margins.left",
	"margins.right",
	"margins.top",
	"margins.bottom",
	"font",
	"font.name",
	"font.size",
	"line_spacing",
	"reference_style",
	"preliminary_order",
}

// Word stores margins in twips, font sizes in half-points and auto line
// spacing in 240ths of a line. A value must round to at least one unit.
const (
	twipsPerInch  = 1440
	maxTwips      = 31680
	maxHalfPoints = 3276
	lineUnit      = 240
	maxLines      = 132
)

type paper struct {
	name   string
	width  int
	height int
}

var pageSizes = map[string]paper{
	"letter": {name: "Letter", width: 12240, height: 15840},
	"a4":     {name: "A4", width: 11906, height: 16838},
}

// storable reports whether value*scale rounds into [1, limit].
func storable(value, scale float64, limit int) bool {
	scaled := math.Round(value * scale)
	return scaled >= 1 && scaled <= float64(limit)
}

func twips(inches float64) int {
	return int(math.Round(inches * twipsPerInch))
}

// xmlChar reports whether r may appear in an XML 1.0 document.
func xmlChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	default:
		return r >= 0x10000 && r <= 0x10FFFF
	}
}

func hasControlChars(value string) bool {
	return strings.IndexFunc(value, func(r rune) bool { return !xmlChar(r) }) >= 0
}

func isRequired(key string) bool {
	for _, candidate := range requiredKeys {
		if candidate == key {
			return true
		}
	}
	return false
}

// checkRule validates values of a decoded rule. Fields listed in missing were
// already reported and are skipped, together with their children.
func checkRule(rule FormatRule, missing map[string]struct{}) []Issue {
	var issues []Issue
	skip := func(field string) bool {
		for key := range missing {
			if key == field || strings.HasPrefix(field, key+".") {
				return true
			}
		}
		return false
	}
	add := func(field, message string) {
		if skip(field) {
			return
		}
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if strings.TrimSpace(rule.ID) == "" {
		add("id", "must not be empty")
	} else if SafeID(rule.ID) == "" {
		add("id", "must contain at least one letter, digit, dash or underscore")
	}
	if strings.TrimSpace(rule.Name) == "" {
		add("uni_name", "must not be empty")
	}

	checkPositive := func(field string, value float64) bool {
		if math.IsInf(value, 0) || !(value > 0) {
			add(field, "must be greater than zero")
			return false
		}
		return true
	}

	marginsOK := true
	for _, side := range []struct {
		field string
		value float64
	}{
		{"margins.left", rule.Margins.Left},
		{"margins.right", rule.Margins.Right},
		{"margins.top", rule.Margins.Top},
		{"margins.bottom", rule.Margins.Bottom},
	} {
		if skip(side.field) {
			marginsOK = false
			continue
		}
		if !checkPositive(side.field, side.value) {
			marginsOK = false
			continue
		}
		if !storable(side.value, twipsPerInch, maxTwips) {
			add(side.field, "must be between 1/1440 inch and 22 inches")
			marginsOK = false
		}
	}

	if strings.TrimSpace(rule.Font.Name) == "" {
		add("font.name", "must not be empty")
	}
	if checkPositive("font.size", rule.Font.Size) && !storable(rule.Font.Size, 2, maxHalfPoints) {
		add("font.size", "must be between 0.5 and 1638 points")
	}
	if checkPositive("line_spacing", rule.LineSpacing) && !storable(rule.LineSpacing, lineUnit, maxLines*lineUnit) {
		add("line_spacing", "must be between 1/240 and 132 lines")
	}

	if strings.TrimSpace(rule.ReferenceStyle) == "" {
		add("reference_style", "must not be empty")
	}
	for _, section := range rule.Preliminary {
		if strings.TrimSpace(section) == "" {
			add("preliminary_order", "must not contain empty section names")
			break
		}
	}
	for _, chapter := range rule.Chapters {
		if strings.TrimSpace(chapter) == "" {
			add("chapters", "must not contain empty chapter titles")
			break
		}
	}
	page := pageSizes["letter"]
	if size := strings.TrimSpace(rule.PageSize); size != "" {
		p, ok := pageSizes[strings.ToLower(size)]
		if !ok {
			add("page_size", "must be Letter or A4")
			marginsOK = false
		}
		page = p
	}
	if marginsOK {
		if twips(rule.Margins.Left)+twips(rule.Margins.Right) >= page.width {
			add("margins", fmt.Sprintf("left and right margins leave no text width on a %s page", page.name))
		}
		if twips(rule.Margins.Top)+twips(rule.Margins.Bottom) >= page.height {
			add("margins", fmt.Sprintf("top and bottom margins leave no text height on a %s page", page.name))
		}
	}

	type textField struct{ field, value string }
	text := []textField{
		{"id", rule.ID},
		{"uni_name", rule.Name},
		{"course_name", rule.Course},
		{"year", rule.Year},
		{"page_size", rule.PageSize},
		{"font.name", rule.Font.Name},
		{"reference_style", rule.ReferenceStyle},
		{"notes", rule.Notes},
	}
	for _, section := range rule.Preliminary {
		text = append(text, textField{"preliminary_order", section})
	}
	for _, chapter := range rule.Chapters {
		text = append(text, textField{"chapters", chapter})
	}
	flagged := make(map[string]bool)
	for _, entry := range text {
		if flagged[entry.field] || !hasControlChars(entry.value) {
			continue
		}
		flagged[entry.field] = true
		add(entry.field, "must not contain control characters")
	}
	return issues
}

// checkDuplicates enforces unique identifiers and unique output folders.
func checkDuplicates(rules []FormatRule) error {
	byID := make(map[string]int, len(rules))
	byFolder := make(map[string]int, len(rules))
	for i, rule := range rules {
		if first, ok := byID[rule.ID]; ok {
			return &DuplicateIdentifierError{ID: rule.ID, First: first, Second: i}
		}
		byID[rule.ID] = i

		folder := strings.ToLower(SafeID(rule.ID))
		if first, ok := byFolder[folder]; ok {
			return &DuplicateIdentifierError{
				ID:      rules[first].ID,
				OtherID: rule.ID,
				Folder:  SafeID(rule.ID),
				First:   first,
				Second:  i,
			}
		}
		byFolder[folder] = i
	}
	return nil
}

func validateRules(rules []FormatRule) error {
	var errs []error
	for i, rule := range rules {
		if issues := checkRule(rule, nil); len(issues) > 0 {
			errs = append(errs, &ValidationError{Index: i, ID: rule.ID, Issues: issues})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return checkDuplicates(rules)
}

func canonicalPageSize(raw string) string {
	if size, ok := pageSizes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return size.name
	}
	return raw
}

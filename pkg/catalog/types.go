package catalog

import (
	"strings"
)

// Default values applied to optional catalog keys.
const (
	DefaultCourse   = "Thesis"
	DefaultPageSize = "Letter"
)

// DefaultChapters lists the placeholder chapters rendered when a record does
// not provide its own chapter list.
var DefaultChapters = []string{
	"Introduction",
	"Literature Review",
	"Methodology",
	"Results & Discussion",
	"Conclusion",
}

// Margins holds page margins in inches.
type Margins struct {
	Left   float64 `json:"left" yaml:"left" mapstructure:"left"`
	Right  float64 `json:"right" yaml:"right" mapstructure:"right"`
	Top    float64 `json:"top" yaml:"top" mapstructure:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom" mapstructure:"bottom"`
}

// Font describes the body font family and size in points.
type Font struct {
	Name string  `json:"name" yaml:"name" mapstructure:"name"`
	Size float64 `json:"size" yaml:"size" mapstructure:"size"`
}

// FormatRule is one institution's formatting specification. Values are
// treated as read-only once loaded.
type FormatRule struct {
	ID             string   `json:"id" yaml:"id" mapstructure:"id"`
	Name           string   `json:"uni_name" yaml:"uni_name" mapstructure:"uni_name"`
	Course         string   `json:"course_name,omitempty" yaml:"course_name,omitempty" mapstructure:"course_name"`
	Year           string   `json:"year,omitempty" yaml:"year,omitempty" mapstructure:"year"`
	PageSize       string   `json:"page_size,omitempty" yaml:"page_size,omitempty" mapstructure:"page_size"`
	Margins        Margins  `json:"margins" yaml:"margins" mapstructure:"margins"`
	Font           Font     `json:"font" yaml:"font" mapstructure:"font"`
	LineSpacing    float64  `json:"line_spacing" yaml:"line_spacing" mapstructure:"line_spacing"`
	ReferenceStyle string   `json:"reference_style" yaml:"reference_style" mapstructure:"reference_style"`
	Preliminary    []string `json:"preliminary_order" yaml:"preliminary_order" mapstructure:"preliminary_order"`
	Chapters       []string `json:"chapters,omitempty" yaml:"chapters,omitempty" mapstructure:"chapters"`
	Notes          string   `json:"notes,omitempty" yaml:"notes,omitempty" mapstructure:"notes"`
}

// Folder returns the sanitized output folder name for the rule.
func (r FormatRule) Folder() string {
	return SafeID(r.ID)
}

// ChapterTitles returns the rule's chapters or DefaultChapters when none are
// configured. The returned slice is always a copy.
func (r FormatRule) ChapterTitles() []string {
	if len(r.Chapters) == 0 {
		return append([]string(nil), DefaultChapters...)
	}
	return append([]string(nil), r.Chapters...)
}

// CourseName returns the course label, falling back to DefaultCourse.
func (r FormatRule) CourseName() string {
	if course := strings.TrimSpace(r.Course); course != "" {
		return course
	}
	return DefaultCourse
}

// Paper returns the configured page size, falling back to DefaultPageSize.
func (r FormatRule) Paper() string {
	if size := strings.TrimSpace(r.PageSize); size != "" {
		return size
	}
	return DefaultPageSize
}

func (r FormatRule) clone() FormatRule {
	out := r
	out.Preliminary = append([]string(nil), r.Preliminary...)
	if r.Chapters != nil {
		out.Chapters = append([]string(nil), r.Chapters...)
	}
	return out
}

// Catalog is the ordered, validated set of rules loaded for one run.
type Catalog struct {
	source string
	rules  []FormatRule
}

// New validates rules and returns a Catalog. It applies the same checks as
// Load so programmatic callers get identical guarantees.
func New(source string, rules []FormatRule) (Catalog, error) {
	if err := validateRules(rules); err != nil {
		return Catalog{}, err
	}
	cloned := make([]FormatRule, len(rules))
	for i, rule := range rules {
		cloned[i] = rule.clone()
	}
	return Catalog{source: source, rules: cloned}, nil
}

// Source reports where the catalog was loaded from.
func (c Catalog) Source() string {
	return c.source
}

// Len returns the number of rules.
func (c Catalog) Len() int {
	return len(c.rules)
}

// Rules returns a copy of the rules in catalog order.
func (c Catalog) Rules() []FormatRule {
	out := make([]FormatRule, len(c.rules))
	for i, rule := range c.rules {
		out[i] = rule.clone()
	}
	return out
}

// Lookup finds a rule by identifier.
func (c Catalog) Lookup(id string) (FormatRule, bool) {
	for _, rule := range c.rules {
		if rule.ID == id {
			return rule.clone(), true
		}
	}
	return FormatRule{}, false
}

// IDs returns identifiers in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c.rules))
	for i, rule := range c.rules {
		ids[i] = rule.ID
	}
	return ids
}

package catalog

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter returns the rules whose identifier matches at least one glob pattern
// (doublestar syntax, e.g. "UK_*" or "{MIT,ETH}"). An empty pattern list keeps
// every rule. Order is preserved.
func (c Catalog) Filter(patterns ...string) (Catalog, error) {
	cleaned := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return Catalog{}, fmt.Errorf("catalog: invalid pattern %q", pattern)
		}
		cleaned = append(cleaned, pattern)
	}
	if len(cleaned) == 0 {
		return c, nil
	}

	out := Catalog{source: c.source}
	for _, rule := range c.rules {
		for _, pattern := range cleaned {
			ok, err := doublestar.Match(pattern, rule.ID)
			if err != nil {
				return Catalog{}, fmt.Errorf("catalog: match %q: %w", pattern, err)
			}
			if ok {
				out.rules = append(out.rules, rule.clone())
				break
			}
		}
	}
	return out, nil
}

// Select keeps the rules whose identifiers are listed, in catalog order.
// Unknown identifiers are reported as an error.
func (c Catalog) Select(ids ...string) (Catalog, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := c.Lookup(id); !ok {
			return Catalog{}, fmt.Errorf("catalog: unknown identifier %q", id)
		}
		wanted[id] = struct{}{}
	}
	out := Catalog{source: c.source}
	for _, rule := range c.rules {
		if _, ok := wanted[rule.ID]; ok {
			out.rules = append(out.rules, rule.clone())
		}
	}
	return out, nil
}

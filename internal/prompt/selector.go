// Package prompt asks the user which institutions to generate.
package prompt

import (
	"context"
	"fmt"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
)

const pageSize = 15

// RuleSelector lets the user tick institutions and confirm the run. It
// satisfies orchestrator.Selector.
type RuleSelector struct {
	driver Driver
}

// NewRuleSelector wraps driver. A nil driver uses survey on the terminal.
func NewRuleSelector(driver Driver) *RuleSelector {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &RuleSelector{driver: driver}
}

// Select returns the chosen ids in catalog order. Declining the confirmation
// returns no ids.
func (s *RuleSelector) Select(ctx context.Context, rules []catalog.FormatRule) ([]string, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	options := make([]string, len(rules))
	defaults := make([]int, len(rules))
	for i, rule := range rules {
		options[i] = fmt.Sprintf("%s - %s (%s)", rule.ID, rule.Name, rule.CourseName())
		defaults[i] = i
	}

	picked, err := s.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Institutions to generate",
		Options:  options,
		Defaults: defaults,
		Help:     "Space toggles, enter confirms.",
		PageSize: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("prompt: select institutions: %w", err)
	}
	if len(picked) == 0 {
		return nil, nil
	}

	ok, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Generate templates for %d institution(s)?", len(picked)),
		Default: true,
	})
	if err != nil {
		return nil, fmt.Errorf("prompt: confirm: %w", err)
	}
	if !ok {
		return nil, nil
	}

	ids := make([]string, 0, len(picked))
	for _, idx := range picked {
		if idx >= 0 && idx < len(rules) {
			ids = append(ids, rules[idx].ID)
		}
	}
	return ids, nil
}

// Package orchestrator drives a generation run: it loads and filters the rule
// catalog, renders every selected rule with every requested renderer, writes
// the artifacts through a Sink and reports per-record outcomes.
package orchestrator

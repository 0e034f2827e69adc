package caseform

import (
	"fmt"
	"strings"
)

// Option is a selectable value with its display label.
type Option struct {
	Value string
	Label string
}

// Departments is the department-category catalog (record type).
var Departments = []Option{
	{Value: "support", Label: "Technical Support"},
	{Value: "billing", Label: "Billing"},
	{Value: "sales", Label: "Sales"},
	{Value: "account", Label: "Account Management"},
}

// RequestTypes is the request type catalog.
var RequestTypes = []Option{
	{Value: "incident", Label: "Incident"},
	{Value: "question", Label: "Question"},
	{Value: "feature", Label: "Feature Request"},
	{Value: "service", Label: "Service Request"},
}

// Reasons is the issue reason catalog.
var Reasons = []Option{
	{Value: "outage", Label: "Service Outage"},
	{Value: "performance", Label: "Performance Issue"},
	{Value: "access", Label: "Login / Access"},
	{Value: "data", Label: "Data Issue"},
	{Value: "other", Label: "Other"},
}

// Priority is one of a fixed set of case priority levels.
// The zero value means no priority has been selected.
type Priority int

const (
	PriorityUnset Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// Priorities lists the selectable levels in badge order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// String returns the coded value used in snapshots and payloads.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return ""
	}
}

// Label returns the badge text.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return ""
	}
}

// Valid reports whether p is one of the selectable levels.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// ParsePriority parses a coded priority value (case-insensitive).
// The empty string parses to PriorityUnset.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityUnset, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return PriorityUnset, fmt.Errorf("invalid priority: %s", s)
	}
}

// OptionsFor returns the catalog backing a select field, or nil.
func OptionsFor(f FieldID) []Option {
	switch f {
	case FieldRecordType:
		return Departments
	case FieldRequestType:
		return RequestTypes
	case FieldReason:
		return Reasons
	case FieldPriority:
		opts := make([]Option, 0, len(Priorities))
		for _, p := range Priorities {
			opts = append(opts, Option{Value: p.String(), Label: p.Label()})
		}
		return opts
	}
	return nil
}

// LabelFor maps a coded select value to its display text.
// Unknown values are returned unchanged.
func LabelFor(f FieldID, value string) string {
	for _, opt := range OptionsFor(f) {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

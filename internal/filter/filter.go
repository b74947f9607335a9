// Package filter narrows already-fetched admin collections. Every function is
// pure: the input slice is never modified and the result keeps source order.
package filter

import (
	"fmt"
	"strings"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// All is the no-op value for every enumerated filter.
const All = "all"

// Predicate reports whether an item is kept.
type Predicate[T any] func(T) bool

// Apply keeps the items matching every predicate, in source order.
// Nil predicates are skipped. The result is always a fresh slice.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, preds) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAll[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(item) {
			return false
		}
	}
	return true
}

// Search matches term case-insensitively as a substring of any field returned
// by fields. The term is used as typed; only "" is a no-op (nil).
// Nil fields never match.
func Search[T any](term string, fields func(T) []*string) Predicate[T] {
	needle := strings.ToLower(term)
	if needle == "" {
		return nil
	}
	return func(item T) bool {
		for _, f := range fields(item) {
			if f != nil && *f != "" && strings.Contains(strings.ToLower(*f), needle) {
				return true
			}
		}
		return false
	}
}

// Status filters on admin approval.
type Status string

const (
	StatusAll      Status = All
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
)

// ParseStatus accepts "", "all", "approved" and "pending".
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case "", StatusAll:
		return StatusAll, nil
	case StatusApproved, StatusPending:
		return st, nil
	}
	return "", fmt.Errorf("invalid status filter %q (want all, approved or pending)", s)
}

// ByApproval filters on the approval gate. StatusAll returns nil.
func ByApproval[T any](status Status, approval func(T) models.Approval) Predicate[T] {
	switch status {
	case StatusApproved:
		return func(item T) bool { return approval(item) == models.ApprovalYes }
	case StatusPending:
		return func(item T) bool { return approval(item) != models.ApprovalYes }
	}
	return nil
}

// Equals keeps items whose facet equals value exactly. "" and "all" return nil.
func Equals[T any](value string, facet func(T) string) Predicate[T] {
	if value == "" || value == All {
		return nil
	}
	return func(item T) bool { return facet(item) == value }
}

func ptr(s string) *string { return &s }

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fold provides case-insensitive string matching for user-typed filters.
//
// # Usage
//
// Search terms are compared against character names and species exactly as a
// visitor expects ("morty" finds "Morty Smith", "ÉMILIE" finds "émilie").
// Both sides are normalized to NFC and then Unicode case folded, so composed
// and decomposed accents compare equal.
package fold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String returns the NFC-normalized, case-folded form of s.
func String(s string) string {
	// A cases.Caser keeps state and is not safe for concurrent use, so build
	// the chain per call.
	t := transform.Chain(norm.NFC, cases.Fold(), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return result
}

// Contains reports whether needle occurs in haystack, ignoring case.
//
// The empty needle matches everything.
func Contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(String(haystack), String(needle))
}

// Equal reports whether a and b are equal, ignoring case.
func Equal(a, b string) bool {
	return String(a) == String(b)
}

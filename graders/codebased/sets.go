/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codebased

import (
	"maps"
	"slices"
)

type stringSet map[string]struct{}

func newSet(items []string) stringSet {
	s := make(stringSet, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// intersect returns the members of s also in other.
func (s stringSet) intersect(other stringSet) stringSet {
	out := make(stringSet)
	for k := range s {
		if _, ok := other[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// minus returns the members of s missing from other.
func (s stringSet) minus(other stringSet) stringSet {
	out := make(stringSet)
	for k := range s {
		if _, ok := other[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func (s stringSet) sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// recall is |expected ∩ found| / |expected|; callers guarantee expected is non-empty.
func recall(expected, found stringSet) float64 {
	return float64(len(expected.intersect(found))) / float64(len(expected))
}

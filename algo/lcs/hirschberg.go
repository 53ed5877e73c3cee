// Copyright 2020 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lcs

// Marker receives the positions, relative to the slice passed to
// Hirschberg.Changed, that are not part of the longest common subsequence
// of the two inputs. It is satisfied by bitmap.T's Set method, letting
// callers mark changed positions directly into a bitmap without an
// intermediate allocation.
type Marker interface {
	Set(i int)
}

// Hirschberg computes, in O(n) space, which elements of two slices are not
// part of their longest common subsequence. Unlike DP and Myers it does not
// build an edit script; it only marks changed positions, via Marker, on
// each side independently. This trades the ability to reconstruct one
// sequence from the other for linear space, which matters when the inputs
// are large and only the changed/unchanged partition is needed (as for a
// diff over the full text, where the edit script itself is derived from
// the changed-position bitmap rather than the other way around).
type Hirschberg[T comparable] struct {
	a, b []T
}

// NewHirschberg returns a Hirschberg instance for finding the changed
// positions transforming a to b.
func NewHirschberg[T comparable](a, b []T) *Hirschberg[T] {
	return &Hirschberg[T]{a: a, b: b}
}

// Changed marks every position of a not part of the LCS(a,b) in changedA,
// and every position of b not part of the LCS(a,b) in changedB. Positions
// are relative to a and b as passed to NewHirschberg, not to any sub-slice
// used internally.
func (h *Hirschberg[T]) Changed(changedA, changedB Marker) {
	calcChanges(h.a, 0, len(h.a), h.b, 0, len(h.b), changedA, changedB)
}

// lcsRow computes the last row of the dynamic programming LCS length table
// for a and b, using only O(len(b)) space. When reverse is true, both a and
// b are scanned back to front, yielding the last row of the table computed
// over the reversed sequences (used for the second half of the Hirschberg
// split).
func lcsRow[T comparable](a, b []T, reverse bool) []int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		ai := a[i-1]
		if reverse {
			ai = a[len(a)-i]
		}
		for j := 1; j <= len(b); j++ {
			bj := b[j-1]
			if reverse {
				bj = b[len(b)-j]
			}
			if ai == bj {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev
}

// trim strips any common prefix and suffix shared by a[lo1:hi1) and
// b[lo2:hi2), returning the narrowed bounds. Matched positions at the
// edges are, by definition, part of the LCS and need no further
// recursion.
func trim[T comparable](a []T, lo1, hi1 int, b []T, lo2, hi2 int) (int, int, int, int) {
	for lo1 < hi1 && lo2 < hi2 && a[lo1] == b[lo2] {
		lo1++
		lo2++
	}
	for lo1 < hi1 && lo2 < hi2 && a[hi1-1] == b[hi2-1] {
		hi1--
		hi2--
	}
	return lo1, hi1, lo2, hi2
}

// setChanged marks the changed positions once one of the two ranges, small
// (lo1:hi1 into small[], marked via changedSmall) holds at most one
// element: the large side (lo2:hi2 into large[], marked via changedLarge)
// is then resolved directly against it rather than recursed further.
// Callers on the slice2-is-small path swap both the slice and changed-array
// arguments, rather than this function branching on which side is small.
func setChanged[T comparable](small []T, lo1, hi1 int, large []T, lo2, hi2 int, changedSmall, changedLarge Marker) {
	toskip := -1
	if hi1-lo1 == 1 {
		v := small[lo1]
		for j := lo2; j < hi2; j++ {
			if large[j] == v {
				toskip = j
				break
			}
		}
		if toskip == -1 {
			changedSmall.Set(lo1)
		}
	}
	for j := lo2; j < hi2; j++ {
		if j != toskip {
			changedLarge.Set(j)
		}
	}
}

// calcChanges marks the changed positions of a[lo1:hi1) and b[lo2:hi2),
// recursively, in O(len(b)) space. The split is always made on
// a's half, never dynamically on whichever side is shorter: this matches
// the reference algorithm's asymmetry exactly, rather than a more
// "balanced" divide that would produce a different, equally valid, but
// different LCS partition.
func calcChanges[T comparable](a []T, lo1, hi1 int, b []T, lo2, hi2 int, changedA, changedB Marker) {
	lo1, hi1, lo2, hi2 = trim(a, lo1, hi1, b, lo2, hi2)

	len1, len2 := hi1-lo1, hi2-lo2
	switch {
	case len1 == 0:
		setChanged(a, lo1, hi1, b, lo2, hi2, changedA, changedB)
		return
	case len2 == 0:
		setChanged(b, lo2, hi2, a, lo1, hi1, changedB, changedA)
		return
	case len1 == 1:
		setChanged(a, lo1, hi1, b, lo2, hi2, changedA, changedB)
		return
	case len2 == 1:
		setChanged(b, lo2, hi2, a, lo1, hi1, changedB, changedA)
		return
	}

	mid := lo1 + len1/2
	top := lcsRow(a[lo1:mid], b[lo2:hi2], false)
	bot := lcsRow(a[mid:hi1], b[lo2:hi2], true)

	best := -1
	bestLen := -1
	for i := 0; i <= len2; i++ {
		l := top[i] + bot[len2-i]
		if l > bestLen {
			bestLen = l
			best = i
		}
	}
	k := lo2 + best

	calcChanges(a, lo1, mid, b, lo2, k, changedA, changedB)
	calcChanges(a, mid, hi1, b, k, hi2, changedA, changedB)
}

// Copyright 2020 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package consdiff

import (
	"github.com/mvdan/tor/algo/container/bitmap"
	"github.com/mvdan/tor/algo/lcs"
)

// offsetMarker adapts a bitmap.T so that positions are given relative to a
// block (a lineSlice's local indices) while still being recorded at their
// consensus-absolute bit position.
type offsetMarker struct {
	bits   bitmap.T
	offset int
}

func (m offsetMarker) Set(i int) {
	m.bits.Set(m.offset + i)
}

// calcChanges marks, in changedA and changedB, every line of block1 and
// block2 that is not part of their longest common subsequence. block1 and
// block2 are the router blocks straddled by a single pair of matching
// routers (or the consensus preamble, or a trailing run with no match on
// one side), found by the caller's router walk.
func calcChanges(block1, block2 lineSlice, changedA, changedB bitmap.T) {
	h := lcs.NewHirschberg(block1.view(), block2.view())
	h.Changed(
		offsetMarker{bits: changedA, offset: block1.offset},
		offsetMarker{bits: changedB, offset: block2.offset},
	)
}

// Copyright 2020 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package consdiff

import (
	"fmt"

	"github.com/mvdan/tor/algo/container/bitmap"
)

const defaultMaxBlockLines = 10000

// GenerateOption configures Generate.
type GenerateOption func(*generateOptions)

type generateOptions struct {
	maxBlockLines int
	skipSelfCheck bool
}

// MaxBlockLines bounds the number of lines between two matched router
// entries (or the leading/trailing run) that calc_changes will be asked to
// diff in one go, as a safety valve against pathological, non-router-
// delimited input driving the divide-and-conquer LCS computation towards
// quadratic time. The default, 10000, matches the historical MAX_LINE_COUNT
// constant this bound was hardcoded as.
func MaxBlockLines(n int) GenerateOption {
	return func(o *generateOptions) { o.maxBlockLines = n }
}

// SkipSelfCheck disables re-applying the generated diff to verify it
// reproduces the target consensus before Generate returns it. Self-
// checking is on by default; turn it off only when the cost of the extra
// apply pass has been measured to matter.
func SkipSelfCheck() GenerateOption {
	return func(o *generateOptions) { o.skipSelfCheck = true }
}

// generateEdScript walks a and b side by side, router entry by router
// entry, computing the changed-line bitmaps for each interleaved block and
// converting the result into an ed script. It requires both a and b to
// have their router entries sorted by strictly increasing identity hash.
func generateEdScript(a, b []string, opts generateOptions) ([]string, error) {
	changedA := bitmap.New(max(len(a), 1))
	changedB := bitmap.New(max(len(b), 1))

	lenA, lenB := len(a), len(b)
	iA, iB := -1, -1
	startA, startB := 0, 0
	var hashA, hashB string
	var haveA, haveB bool

	advanceA := func() error {
		last, haveLast := hashA, haveA
		iA = nextRouter(a, iA)
		if iA == lenA {
			haveA = false
			return nil
		}
		hashA, _ = getIdentityHash(a[iA])
		haveA = true
		if hashcmp(hashA, true, last, haveLast) <= 0 {
			return newError(UnsortedRouters, "router entries in the base consensus are not sorted by strictly increasing identity hash at line %d (hash %q)", iA, hashA)
		}
		return nil
	}
	advanceB := func() error {
		last, haveLast := hashB, haveB
		iB = nextRouter(b, iB)
		if iB == lenB {
			haveB = false
			return nil
		}
		hashB, _ = getIdentityHash(b[iB])
		haveB = true
		if hashcmp(hashB, true, last, haveLast) <= 0 {
			return newError(UnsortedRouters, "router entries in the target consensus are not sorted by strictly increasing identity hash at line %d (hash %q)", iB, hashB)
		}
		return nil
	}

	for iA < lenA || iB < lenB {
		if iA < lenA {
			if err := advanceA(); err != nil {
				return nil, err
			}
		}
		if iB < lenB {
			if err := advanceB(); err != nil {
				return nil, err
			}
		}

		// If one side has already run out of router entries, the remaining
		// tail of the other side forms one final block: there is no more
		// hash to catch up to, so hashcmp would otherwise favour the
		// exhausted side forever and the walk below would never terminate.
		if iA == lenA && iB < lenB {
			iB = lenB
		} else if iB == lenB && iA < lenA {
			iA = lenA
		}

		if iA < lenA || iB < lenB {
			for cmp := hashcmp(hashA, haveA, hashB, haveB); cmp != 0; cmp = hashcmp(hashA, haveA, hashB, haveB) {
				if iA < lenA && cmp < 0 {
					if err := advanceA(); err != nil {
						return nil, err
					}
					if iA == lenA {
						iB = lenB
						break
					}
				}
				if iB < lenB && cmp > 0 {
					if err := advanceB(); err != nil {
						return nil, err
					}
					if iB == lenB {
						iA = lenA
						break
					}
				}
			}
		}

		blockA := newSlice(a, startA, iA-startA)
		blockB := newSlice(b, startB, iB-startB)
		if blockA.length > opts.maxBlockLines || blockB.length > opts.maxBlockLines {
			return nil, newError(BlockTooLarge, "router block of %d/%d lines exceeds the %d-line safety bound", blockA.length, blockB.length, opts.maxBlockLines)
		}
		calcChanges(blockA, blockB, changedA, changedB)
		startA, startB = iA, iB
	}

	return bitmapToEdScript(a, b, changedA, changedB)
}

// bitmapToEdScript performs a single backward sweep over the changed-line
// bitmaps, turning each maximal contiguous changed run into one ed
// command, emitted in strictly decreasing address order as required when
// applying the result back-to-front.
func bitmapToEdScript(a, b []string, changedA, changedB bitmap.T) ([]string, error) {
	var script []string
	i1, i2 := len(a)-1, len(b)-1
	for i1 >= 0 || i2 >= 0 {
		set1 := i1 >= 0 && changedA.IsSet(i1)
		set2 := i2 >= 0 && changedB.IsSet(i2)
		if !set1 && !set2 {
			if i1 >= 0 {
				i1--
			}
			if i2 >= 0 {
				i2--
			}
			continue
		}

		end1, end2 := i1, i2
		for i1 >= 0 && changedA.IsSet(i1) {
			i1--
		}
		for i2 >= 0 && changedB.IsSet(i2) {
			i2--
		}
		start1, start2 := i1+1, i2+1
		added := end2 - i2
		deleted := end1 - i1

		switch {
		case added == 0:
			script = append(script, edRange(start1+1, start1+deleted)+"d")
		default:
			var cmd string
			switch {
			case deleted == 0:
				cmd = fmt.Sprintf("%d", start1) + "a"
			case deleted == 1:
				cmd = fmt.Sprintf("%d", start1+1) + "c"
			default:
				cmd = edRange(start1+1, start1+deleted) + "c"
			}
			script = append(script, cmd)
			for i := start2; i <= end2; i++ {
				if b[i] == "." {
					return nil, newError(IllegalAddedLine, "line %d of the target consensus is %q, which the ed format cannot represent as an added line", i, ".")
				}
				script = append(script, b[i])
			}
			script = append(script, ".")
		}
	}
	return script, nil
}

// edRange formats a one- or two-line ed address range.
func edRange(start, end int) string {
	if start == end {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, end)
}

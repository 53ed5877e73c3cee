// Copyright 2020 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package consdiff

// lineSlice is a non-owning view of a contiguous run of lines in a
// consensus, expressed as an (offset, length) pair into a shared backing
// list rather than a copy of the lines themselves.
type lineSlice struct {
	lines  []string
	offset int
	length int
}

// newSlice returns a lineSlice view of lines[offset:offset+length]. A
// length of -1 means "to the end of lines".
func newSlice(lines []string, offset, length int) lineSlice {
	if length == -1 {
		length = len(lines) - offset
	}
	return lineSlice{lines: lines, offset: offset, length: length}
}

// view returns the lines covered by the slice, as a sub-slice of the
// original backing array (still non-owning).
func (s lineSlice) view() []string {
	return s.lines[s.offset : s.offset+s.length]
}

// positionOf returns the absolute index, within the slice's bounds, of the
// first line equal to want, or -1 if none is found.
func (s lineSlice) positionOf(want string) int {
	end := s.offset + s.length
	for i := s.offset; i < end; i++ {
		if s.lines[i] == want {
			return i
		}
	}
	return -1
}

// trim strips any common prefix and suffix shared by two slices, narrowing
// both in place. Matched edges need no further comparison once trimmed.
func trim(a, b lineSlice) (lineSlice, lineSlice) {
	for a.length > 0 && b.length > 0 && a.lines[a.offset] == b.lines[b.offset] {
		a.offset++
		a.length--
		b.offset++
		b.length--
	}
	for a.length > 0 && b.length > 0 && a.lines[a.offset+a.length-1] == b.lines[b.offset+b.length-1] {
		a.length--
		b.length--
	}
	return a, b
}

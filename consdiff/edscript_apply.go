// Copyright 2020 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package consdiff

import "strconv"

// applyEdScript reconstructs the consensus that script transforms a into.
// script must be the ed commands alone, without the two header lines.
//
// The scan runs backward: ed commands are required (I3) to appear in
// strictly decreasing order of their starting address, so the applier
// walks the source from its last line towards its first, copying
// untouched lines, discarding deleted/changed ones, and splicing in added
// lines, then reverses the accumulated output once at the end. This
// mirrors the ed format's own rationale: line numbers in a later command
// are unaffected by an earlier one only if commands are applied from the
// bottom up.
func applyEdScript(a []string, script []string) ([]string, error) {
	j := len(a)
	var out []string

	i := 0
	for i < len(script) {
		line := script[i]

		start, rest, ok := leadingInt(line)
		if !ok {
			return nil, newError(BadEdCommand, "ed command %q has no leading line number", line)
		}
		end := start
		if len(rest) > 0 && rest[0] == ',' {
			e, rest2, ok := leadingInt(rest[1:])
			if !ok {
				return nil, newError(BadEdCommand, "ed command %q has a malformed range", line)
			}
			if e <= start {
				return nil, newError(BadEdCommand, "ed command %q has a range that does not increase (%d..%d)", line, start, e)
			}
			end, rest = e, rest2
		}
		if end > j {
			return nil, newError(BadEdCommand, "ed command %q is out of order: its range ends past the line %d already consumed", line, j)
		}
		if len(rest) != 1 {
			return nil, newError(BadEdCommand, "ed command %q has a missing or multi-character action", line)
		}
		action := rest[0]
		if action != 'a' && action != 'c' && action != 'd' {
			return nil, newError(BadEdCommand, "ed command %q has an unrecognised action %q", line, string(action))
		}

		for ; j > end; j-- {
			out = append(out, a[j-1])
		}
		if action == 'c' || action == 'd' {
			for j > start-1 {
				j--
			}
		}
		if action == 'a' || action == 'c' {
			cmdIdx := i
			i++
			for i < len(script) && script[i] != "." {
				i++
			}
			if i == len(script) {
				return nil, newError(BadEdCommand, "ed command %q is missing its terminating %q line", line, ".")
			}
			lastAdded := i - 1
			if lastAdded == cmdIdx {
				return nil, newError(BadEdCommand, "ed command %q adds zero lines", line)
			}
			for k := lastAdded; k > cmdIdx; k-- {
				out = append(out, script[k])
			}
		}
		i++
	}

	for ; j > 0; j-- {
		out = append(out, a[j-1])
	}
	reverseLines(out)
	return out, nil
}

// leadingInt parses a non-negative decimal integer from the start of s,
// returning the parsed value, the remainder of s, and whether a digit was
// found at all.
func leadingInt(s string) (int, string, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, s, false
	}
	return n, s[end:], true
}

func reverseLines(lines []string) {
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
}

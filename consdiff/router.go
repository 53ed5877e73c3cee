// Copyright 2020 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package consdiff

import "strings"

// sentinel marks a byte that does not belong to the base64 alphabet used
// for router identity hashes.
const sentinel = 255

// base64Value maps a byte to its value in the standard base64 alphabet
// (A-Z, a-z, 0-9, +, /), or sentinel for anything else, including the
// padding character and whitespace. It mirrors crypto.c's
// base64_compare_table: the ordering it induces, not the raw base64
// encoding, is what matters here, since it is used only to compare two
// hash prefixes lexicographically in constant alphabet order.
var base64Value [256]uint8

func init() {
	for i := range base64Value {
		base64Value[i] = sentinel
	}
	for c := 'A'; c <= 'Z'; c++ {
		base64Value[c] = uint8(c - 'A')
	}
	for c := 'a'; c <= 'z'; c++ {
		base64Value[c] = uint8(c-'a') + 26
	}
	for c := '0'; c <= '9'; c++ {
		base64Value[c] = uint8(c-'0') + 52
	}
	base64Value['+'] = 62
	base64Value['/'] = 63
}

const routerPrefix = "r "

// getIdentityHash returns the base64-encoded identity hash substring of a
// router entry line, and whether one was found. A router line has the form
// "r <nickname> <identity-hash> ...": the hash starts after the second
// space and runs for as long as bytes remain in the base64 alphabet.
//
// This only requires at least one base64 byte to be present, rather than
// the 27-character minimum original Tor router hashes happen to have: the
// codec's own contract is "reject if zero hash bytes were accepted", not a
// length bound tied to a specific hash encoding.
func getIdentityHash(line string) (string, bool) {
	if len(line) < len(routerPrefix) || line[:len(routerPrefix)] != routerPrefix {
		return "", false
	}
	rest := line[len(routerPrefix):]
	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return "", false
	}
	hash := rest[sp+1:]
	end := 0
	for end < len(hash) && base64Value[hash[end]] != sentinel {
		end++
	}
	if end == 0 {
		return "", false
	}
	return hash[:end], true
}

// isRouterEntry reports whether line both starts with "r " and carries a
// usable identity hash.
func isRouterEntry(line string) bool {
	_, ok := getIdentityHash(line)
	return ok
}

// nextRouter returns the index of the next router entry in lines at or
// after cur+1, or len(lines) if none remain. cur must be -1 (to find the
// very first router entry) or a valid index into lines.
func nextRouter(lines []string, cur int) int {
	for cur++; cur < len(lines); cur++ {
		if isRouterEntry(lines[cur]) {
			return cur
		}
	}
	return len(lines)
}

// hashcmp compares two router identity hashes in base64-alphabet order,
// comparing byte-by-byte only up to the first non-base64 byte of either
// side. An absent hash (ok=false, used for "no previous hash yet") always
// compares lower than a present one.
func hashcmp(h1 string, ok1 bool, h2 string, ok2 bool) int {
	if !ok1 && !ok2 {
		return 0
	}
	if !ok1 {
		return -1
	}
	if !ok2 {
		return 1
	}
	for i := 0; ; i++ {
		var av, bv uint8 = sentinel, sentinel
		if i < len(h1) {
			av = base64Value[h1[i]]
		}
		if i < len(h2) {
			bv = base64Value[h2[i]]
		}
		switch {
		case av == sentinel && bv == sentinel:
			return 0
		case av == sentinel:
			return -1
		case bv == sentinel:
			return 1
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
}

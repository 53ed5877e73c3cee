// Copyright 2020 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package consdiff implements the consensus-diff codec: computing and
// applying a minimal ed-format diff between two router-sorted consensus
// documents, with digest verification at both ends.
//
// Reading and writing the consensus text itself are left to the caller:
// this package operates purely on already-split lines. Generate and Apply
// take caller-computed SHA-256 digests of their inputs (Digest computes
// one); Apply hashes its reconstructed result itself to verify it.
package consdiff

import (
	"bytes"
	"crypto/sha256"
	"strings"

	"github.com/mvdan/tor/algo/digests"
)

const versionLine = "network-status-diff-version 1"
const hexDigestLen = sha256.Size * 2

// Digest computes the digest of a consensus's on-wire serialization: its
// lines joined by "\n" with a trailing "\n", matching how the network
// actually hashes a consensus document end to end.
func Digest(lines []string) []byte {
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n") + "\n"))
	return sum[:]
}

// hexUpper hex-encodes a digest in uppercase, matching the format diff
// writers are required to emit. Readers accept either case (see
// parseHexDigest), since that is what's actually out on the network.
func hexUpper(digest []byte) string {
	return strings.ToUpper(digests.ToHex(digest))
}

// Generate builds a diff transforming a into b. digestA and digestB are
// the caller-computed SHA-256 digests of a and b; Generate does not
// recompute them, since the caller already has both documents in hand.
//
// The result is self-checked by default: applying it to a must reproduce
// b exactly before Generate returns it. Use SkipSelfCheck to disable this.
func Generate(a, b []string, digestA, digestB []byte, opts ...GenerateOption) ([]string, error) {
	o := generateOptions{maxBlockLines: defaultMaxBlockLines}
	for _, fn := range opts {
		fn(&o)
	}

	script, err := generateEdScript(a, b, o)
	if err != nil {
		return nil, err
	}

	if !o.skipSelfCheck {
		got, applyErr := applyEdScript(a, script)
		if applyErr != nil {
			return nil, newError(SelfCheckFailed, "re-applying the generated script failed: %v", applyErr)
		}
		if !equalLines(got, b) {
			return nil, newError(SelfCheckFailed, "re-applying the generated script did not reproduce the target consensus")
		}
	}

	header := []string{
		versionLine,
		"hash " + hexUpper(digestA) + " " + hexUpper(digestB),
	}
	return append(header, script...), nil
}

// GetDigests extracts the two digests embedded in a diff's header,
// without applying the diff or needing the base consensus.
func GetDigests(diff []string) (digestA, digestB []byte, err error) {
	if len(diff) < 2 {
		return nil, nil, newError(MalformedHeader, "diff has fewer than the 2 required header lines")
	}
	if diff[0] != versionLine {
		return nil, nil, newError(MalformedHeader, "first line %q does not match %q", diff[0], versionLine)
	}
	fields := strings.Fields(diff[1])
	if len(fields) != 3 || fields[0] != "hash" {
		return nil, nil, newError(MalformedHeader, "second line %q is not a well-formed %q header", diff[1], "hash <A> <B>")
	}
	digestA, err = parseHexDigest(fields[1])
	if err != nil {
		return nil, nil, err
	}
	digestB, err = parseHexDigest(fields[2])
	if err != nil {
		return nil, nil, err
	}
	return digestA, digestB, nil
}

func parseHexDigest(tok string) ([]byte, error) {
	if len(tok) != hexDigestLen {
		return nil, newError(BadDigestFormat, "digest %q is not %d hex characters long", tok, hexDigestLen)
	}
	b, err := digests.FromHex(strings.ToLower(tok))
	if err != nil {
		return nil, newError(BadDigestFormat, "digest %q is not valid hex: %v", tok, err)
	}
	return b, nil
}

// Apply reconstructs the consensus diff transforms a into, verifying the
// base consensus digest before applying and the result digest after.
// digestA is the caller-computed SHA-256 digest of a.
func Apply(a []string, diff []string, digestA []byte) ([]string, error) {
	if len(diff) < 3 {
		return nil, newError(MalformedHeader, "diff has fewer than 3 lines: no ed script is present")
	}
	expectedA, expectedB, err := GetDigests(diff)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(digestA, expectedA) {
		return nil, newError(BaseDigestMismatch, "base consensus digest %s does not match the diff's expected %s", hexUpper(digestA), hexUpper(expectedA))
	}

	result, err := applyEdScript(a, diff[2:])
	if err != nil {
		return nil, err
	}

	gotB := Digest(result)
	if !bytes.Equal(gotB, expectedB) {
		return nil, newError(ResultDigestMismatch, "reconstructed consensus digest %s does not match the diff's expected %s", hexUpper(gotB), hexUpper(expectedB))
	}
	return result, nil
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

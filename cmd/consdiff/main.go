// Copyright 2020 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command consdiff generates and applies consensus diffs in the minimal ed
// format described by this repository's consdiff package.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mvdan/tor/algo/codec"
	"github.com/mvdan/tor/algo/digests"
	"github.com/mvdan/tor/algo/lcs"
	"github.com/mvdan/tor/cmdutil"
	"github.com/mvdan/tor/cmdutil/subcmd"
	"github.com/mvdan/tor/consdiff"
	"github.com/mvdan/tor/errors"
	"github.com/mvdan/tor/logging/ctxlog"
)

// lineDecoder splits a byte slice into lines at "\n" boundaries, without
// requiring (or keeping) a trailing newline on the last line.
var lineDecoder = codec.NewDecoder(func(input []byte) (string, int) {
	if idx := bytes.IndexByte(input, '\n'); idx >= 0 {
		return string(input[:idx]), idx + 1
	}
	return string(input), len(input)
})

var (
	cmdSet   *subcmd.CommandSet
	logFlags = &cmdutil.LoggingFlags{}
)

type generateFlags struct {
	MaxBlockLines int  `subcmd:"max-block-lines,10000,largest interleaved router block the generator will diff in one pass"`
	SkipSelfCheck bool `subcmd:"skip-self-check,false,skip re-applying the generated diff to verify it reproduces the target consensus"`
}

type applyFlags struct{}

type digestsFlags struct{}

type explainFlags struct{}

// dpExplainThreshold bounds how large a pair of consensuses explain will
// run through the quadratic DP solver before falling back to Myers, whose
// O(ND) behaviour degrades much more gracefully on large, mostly-similar
// inputs.
const dpExplainThreshold = 500

func init() {
	generateFS := subcmd.NewFlagSet()
	generateFS.MustRegisterFlagStruct(&generateFlags{}, nil, nil)
	applyFS := subcmd.NewFlagSet()
	applyFS.MustRegisterFlagStruct(&applyFlags{}, nil, nil)
	digestsFS := subcmd.NewFlagSet()
	digestsFS.MustRegisterFlagStruct(&digestsFlags{}, nil, nil)
	explainFS := subcmd.NewFlagSet()
	explainFS.MustRegisterFlagStruct(&explainFlags{}, nil, nil)

	generateCmd := subcmd.NewCommand("generate", generateFS, runGenerate, subcmd.ExactlyNumArguments(2))
	generateCmd.Document("compute the diff transforming consensus A into consensus B", "<A-file>", "<B-file>")

	applyCmd := subcmd.NewCommand("apply", applyFS, runApply, subcmd.ExactlyNumArguments(2))
	applyCmd.Document("apply a diff to consensus A, writing the reconstructed consensus to stdout", "<A-file>", "<diff-file>")

	digestsCmd := subcmd.NewCommand("digests", digestsFS, runDigests, subcmd.ExactlyNumArguments(1))
	digestsCmd.Document("print the two digests embedded in a diff's header", "<diff-file>")

	explainCmd := subcmd.NewCommand("explain", explainFS, runExplain, subcmd.ExactlyNumArguments(2))
	explainCmd.Document("print a human-readable, line-by-line diff between two consensuses, independent of the ed wire format", "<A-file>", "<B-file>")

	loggingFS := subcmd.GlobalFlagSet()
	loggingFS.MustRegisterFlagStruct(logFlags, nil, nil)

	cmdSet = subcmd.NewCommandSet(generateCmd, applyCmd, digestsCmd, explainCmd)
	cmdSet.WithGlobalFlags(loggingFS)
	cmdSet.Document("Generate, apply, and inspect consensus diffs.")
}

func main() {
	ctx, cancel := cmdutil.HandleInterrupt(context.Background())
	defer cancel(nil)
	if err := cmdSet.Dispatch(ctx); err != nil {
		cmdutil.Exit("%v", err)
	}
}

func withLogger(ctx context.Context) context.Context {
	logger, err := logFlags.LoggingConfig().NewLogger()
	if err != nil {
		return ctx
	}
	return ctxlog.WithLogger(ctx, logger.Logger)
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotate("reading "+path, errors.Caller(err))
	}
	if len(data) == 0 {
		return nil, nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	return lineDecoder.Decode(data), nil
}

func writeLines(lines []string) error {
	_, err := fmt.Println(strings.Join(lines, "\n"))
	return err
}

func runGenerate(ctx context.Context, values interface{}, args []string) error {
	fv := values.(*generateFlags)
	a, err := readLines(args[0])
	if err != nil {
		return err
	}
	b, err := readLines(args[1])
	if err != nil {
		return err
	}
	digestA, digestB := consdiff.Digest(a), consdiff.Digest(b)

	var opts []consdiff.GenerateOption
	if fv.MaxBlockLines > 0 {
		opts = append(opts, consdiff.MaxBlockLines(fv.MaxBlockLines))
	}
	if fv.SkipSelfCheck {
		opts = append(opts, consdiff.SkipSelfCheck())
	}

	ctxlog.Info(withLogger(ctx), "generating diff", "a", args[0], "b", args[1], "a_lines", len(a), "b_lines", len(b))
	diff, err := consdiff.Generate(a, b, digestA, digestB, opts...)
	if err != nil {
		return err
	}
	return writeLines(diff)
}

func runApply(ctx context.Context, values interface{}, args []string) error {
	a, err := readLines(args[0])
	if err != nil {
		return err
	}
	diff, err := readLines(args[1])
	if err != nil {
		return err
	}
	digestA := consdiff.Digest(a)

	ctxlog.Info(withLogger(ctx), "applying diff", "a", args[0], "diff", args[1])
	result, err := consdiff.Apply(a, diff, digestA)
	if err != nil {
		return err
	}
	return writeLines(result)
}

// runExplain renders a conventional, line-oriented diff between two
// consensuses. It is a human-facing companion to generate: the ed script
// generate produces is addressed for machine replay and omits unchanged
// lines entirely, which makes it a poor fit for a reviewer trying to see
// what actually changed.
func runExplain(_ context.Context, _ interface{}, args []string) error {
	a, err := readLines(args[0])
	if err != nil {
		return err
	}
	b, err := readLines(args[1])
	if err != nil {
		return err
	}

	var ses *lcs.EditScript[string]
	if len(a)+len(b) <= dpExplainThreshold {
		ses = lcs.NewDP(a, b).SES()
	} else {
		ses = lcs.NewMyers(a, b).SES()
	}
	ses.FormatVertical(os.Stdout, a)
	return nil
}

func runDigests(_ context.Context, _ interface{}, args []string) error {
	diff, err := readLines(args[0])
	if err != nil {
		return err
	}
	digestA, digestB, err := consdiff.GetDigests(diff)
	if err != nil {
		return err
	}
	fmt.Printf("A %s\nB %s\n", strings.ToUpper(digests.ToHex(digestA)), strings.ToUpper(digests.ToHex(digestB)))
	return nil
}

// Command rasqalcompare is the comparator CLI: it reads two SPARQL
// results documents and reports whether they are equal under the
// configured comparison policy, exiting 0/1/2 for equal/different/error.
// File loading and the CLI surface itself are peripheral; the
// comparison work is entirely package compare.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dajobe/rasqal-sub006/compare"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/results"
)

const (
	exitEqual     = 0
	exitDifferent = 1
	exitError     = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rasqalcompare", flag.ContinueOnError)
	var (
		expectedPath  = fs.String("expected", "", "expected SPARQL-Results-JSON file")
		actualPath    = fs.String("actual", "", "actual SPARQL-Results-JSON file")
		queryPath     = fs.String("query", "", "unused placeholder for a query file (query execution is external to this core)")
		orderSens     = fs.Bool("order-sensitive", false, "require rows to appear in the same order")
		blankStrategy = fs.String("blank-node-strategy", "any", "blank node match policy: any|id|structure")
		maxDiffs      = fs.Int("max-differences", 0, "cap the number of reported differences (0 = unlimited)")
		timeoutSecs   = fs.Int("timeout", 10, "graph isomorphism search bound, in seconds")
		sigThreshold  = fs.Int("signature-threshold", 8, "max blank-node class size searched exhaustively")
		format        = fs.String("format", "unified", "output format: unified|json|xml|debug")
	)
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	_ = *queryPath // query execution is an external collaborator; this CLI only compares already-produced results.

	if *expectedPath == "" || *actualPath == "" {
		fmt.Fprintln(os.Stderr, "rasqalcompare: --expected and --actual are required")
		return exitError
	}

	strategy, err := parseBlankNodeStrategy(*blankStrategy)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rasqalcompare:", err)
		return exitError
	}

	log := logrus.New()
	ctx := rctx.New(context.Background(), logrus.NewEntry(log))

	expected := results.NewJSONReader(openerFor(*expectedPath))
	actual := results.NewJSONReader(openerFor(*actualPath))

	opts := compare.Options{
		OrderSensitive:    *orderSens,
		BlankNodeStrategy: strategy,
		LiteralFlags:      compare.DefaultOptions.LiteralFlags,
		MaxDifferences:    *maxDiffs,
		Graph: compare.GraphOptions{
			SignatureThreshold: *sigThreshold,
			MaxSearchTime:      time.Duration(*timeoutSecs) * time.Second,
		},
	}

	res, err := compare.Compare(ctx, expected, actual, opts)
	if err != nil {
		ctx.Log().WithError(err).Error("comparison failed")
		fmt.Fprintln(os.Stderr, "rasqalcompare:", err)
		return exitError
	}

	report(os.Stdout, res, *format)
	if res.Equal {
		return exitEqual
	}
	return exitDifferent
}

func parseBlankNodeStrategy(s string) (compare.BlankNodeStrategy, error) {
	switch s {
	case "any", "":
		return compare.MatchAny, nil
	case "id":
		return compare.MatchByID, nil
	case "structure":
		return compare.MatchStructural, nil
	default:
		return 0, fmt.Errorf("unknown --blank-node-strategy %q (want any|id|structure)", s)
	}
}

// openerFor returns a results.JSONReader open function that (re)opens
// path on every call, so Rewind() truly restarts from the beginning of
// the file.
func openerFor(path string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

func report(w *os.File, res *compare.Result, format string) {
	switch format {
	case "json":
		fmt.Fprintf(w, "{\"equal\":%v,\"cellDifferences\":%d,\"tripleDifferences\":%d,\"truncated\":%v}\n",
			res.Equal, len(res.CellDiffs), len(res.TripleDiffs), res.Truncated)
	case "debug":
		fmt.Fprintf(w, "equal=%v truncated=%v\n", res.Equal, res.Truncated)
		for _, d := range res.CellDiffs {
			fmt.Fprintf(w, "  %s: expected=%s actual=%s\n", d.Description, d.Expected, d.Actual)
		}
		for _, d := range res.TripleDiffs {
			fmt.Fprintf(w, "  %s\n", d.Description)
		}
	default: // "unified" and "xml" both render the same unified diff text;
		// a dedicated XML encoder is an external formatting concern
		// outside the comparison core.
		if res.Equal {
			fmt.Fprintln(w, "results are equal")
			return
		}
		fmt.Fprintln(w, "results differ:")
		for _, d := range res.CellDiffs {
			fmt.Fprintf(w, "- %s\n  expected: %s\n  actual:   %s\n", d.Description, d.Expected, d.Actual)
		}
		for _, d := range res.TripleDiffs {
			fmt.Fprintf(w, "- %s\n", d.Description)
		}
		if res.Truncated {
			fmt.Fprintln(w, "(additional differences suppressed at --max-differences)")
		}
	}
}

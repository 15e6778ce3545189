package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"
)

type QueryEntry struct {
	ID    string `json:"id"`
	Query string `json:"query"`
}

var (
	adjectives = []string{
		"quick", "lazy", "brown", "silent", "bright", "ancient", "curious", "heavy", "gentle", "rapid",
	}

	nouns = []string{
		"fox", "dog", "river", "engine", "library", "harbor", "signal", "garden", "tower", "market",
	}

	verbs = []string{
		"jumps over", "runs past", "watches", "follows", "crosses", "guards", "finds", "leaves",
	}
)

func pick(r *rand.Rand, words []string) string {
	return words[r.IntN(len(words))]
}

func generateSentence(r *rand.Rand) string {
	return fmt.Sprintf("The %s %s %s the %s %s",
		pick(r, adjectives), pick(r, nouns), pick(r, verbs), pick(r, adjectives), pick(r, nouns))
}

// generateQuery builds one to three clauses, each a bare term or a quoted
// adjective-noun phrase.
func generateQuery(r *rand.Rand) string {
	n := r.IntN(3) + 1
	clauses := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if r.IntN(2) == 0 {
			clauses = append(clauses, pick(r, nouns))
		} else {
			clauses = append(clauses, fmt.Sprintf("%q", pick(r, adjectives)+" "+pick(r, nouns)))
		}
	}
	return strings.Join(clauses, " ")
}

func writeQueries(w io.Writer, r *rand.Rand, count int) error {
	entries := make([]QueryEntry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, QueryEntry{
			ID:    ksuid.New().String(),
			Query: generateQuery(r),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode queries: %w", err)
	}
	return nil
}

func writeLines(w io.Writer, r *rand.Rand, count int) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < count; i++ {
		if _, err := fmt.Fprintln(bw, generateSentence(r)); err != nil {
			return fmt.Errorf("failed to write line %d: %w", i+1, err)
		}
	}
	return bw.Flush()
}

func runAction(c *cli.Context) error {
	ctx := c.Context
	queriesOut := c.String("queries-out")
	queryCount := c.Int("queries")
	lineCount := c.Int("lines")

	r := rand.New(rand.NewPCG(c.Uint64("seed"), 0))

	slog.InfoContext(ctx, "Starting generator",
		"queries_out", queriesOut,
		"queries", queryCount,
		"lines", lineCount,
	)

	if queriesOut != "" && queryCount > 0 {
		f, err := os.Create(queriesOut)
		if err != nil {
			return fmt.Errorf("failed to create queries file: %w", err)
		}
		if err := writeQueries(f, r, queryCount); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close queries file: %w", err)
		}
	}

	if err := writeLines(os.Stdout, r, lineCount); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Successfully generated test data", "queries", queryCount, "lines", lineCount)
	return nil
}

func main() {
	// Logs go to stderr; stdout carries the generated lines.
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	app := &cli.App{
		Name:  "generator",
		Usage: "Generate random standing queries and input lines for percolate",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "queries-out",
				Aliases: []string{"o"},
				Usage:   "File to write the generated queries to",
			},
			&cli.IntFlag{
				Name:    "queries",
				Aliases: []string{"q"},
				Usage:   "Number of queries to generate",
				Value:   10,
			},
			&cli.IntFlag{
				Name:    "lines",
				Aliases: []string{"n"},
				Usage:   "Number of input lines to write to stdout",
				Value:   100,
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Random seed",
				Value: 1,
			},
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

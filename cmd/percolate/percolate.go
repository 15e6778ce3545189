package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/letmevibethatforyou/matchx"
	"github.com/letmevibethatforyou/matchx/inmemory"
	"github.com/urfave/cli/v2"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024

type queryEntry struct {
	ID    string `json:"id"`
	Query string `json:"query"`
}

// loadQueries reads a JSON array of queries. Entries without an id are
// numbered by their position in the file.
func loadQueries(r io.Reader, field string) ([]inmemory.Query, error) {
	var entries []queryEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "failed to decode queries")
	}

	queries := make([]inmemory.Query, 0, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			id = strconv.Itoa(i)
		}
		q, err := inmemory.ParseQuery(id, e.Query, field)
		if err != nil {
			return nil, errors.Wrapf(err, "query %d", i)
		}
		queries = append(queries, q)
	}
	return queries, nil
}

type percolator struct {
	monitor        *inmemory.Monitor
	field          string
	batchSize      int
	withEmptyLines bool
	withScore      bool
}

type lineMatch struct {
	QueryID   string                   `json:"queryId"`
	Score     *float64                 `json:"score,omitempty"`
	Hits      map[string]matchx.HitSet `json:"hits"`
	Fragments []string                 `json:"fragments"`
}

type lineOutput struct {
	LineNumber int         `json:"lineNumber"`
	Line       string      `json:"line"`
	Matches    []lineMatch `json:"matches"`
}

// run reads lines from in, matches them batch by batch and writes one JSON
// object per matching line to out.
func (p *percolator) run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	w := bufio.NewWriter(out)
	defer w.Flush()

	lineNumber := 0
	lines := make([]string, 0, p.batchSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) < p.batchSize {
			continue
		}
		if err := p.flush(ctx, w, lineNumber, lines); err != nil {
			return err
		}
		lineNumber += len(lines)
		lines = lines[:0]
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed to read input")
	}
	if len(lines) > 0 {
		return p.flush(ctx, w, lineNumber, lines)
	}
	return nil
}

func (p *percolator) flush(ctx context.Context, w *bufio.Writer, firstLine int, lines []string) error {
	docs := make([]inmemory.Document, len(lines))
	for i, line := range lines {
		docs[i] = inmemory.Document{
			ID:     strconv.Itoa(firstLine + i + 1),
			Fields: map[string]string{p.field: line},
		}
	}

	matches, err := p.monitor.Match(ctx, docs...)
	if err != nil {
		return errors.Wrapf(err, "failed to match lines %d-%d", firstLine+1, firstLine+len(lines))
	}

	for i, line := range lines {
		results := matches.ForDocument(i)
		if len(results) == 0 {
			if p.withEmptyLines {
				if _, err := w.WriteString("\n"); err != nil {
					return err
				}
			}
			continue
		}

		output := lineOutput{
			LineNumber: firstLine + i + 1,
			Line:       line,
			Matches:    make([]lineMatch, 0, len(results)),
		}
		for _, r := range results {
			output.Matches = append(output.Matches, p.toLineMatch(line, r))
		}

		data, err := json.Marshal(output)
		if err != nil {
			return errors.Wrap(err, "failed to marshal match")
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	// Flush per batch so interactive callers see output line by line.
	return w.Flush()
}

func (p *percolator) toLineMatch(line string, r *matchx.MatchResult) lineMatch {
	m := lineMatch{
		QueryID:   r.QueryID(),
		Hits:      make(map[string]matchx.HitSet),
		Fragments: make([]string, 0),
	}
	if p.withScore {
		score := r.Score()
		m.Score = &score
	}
	for _, field := range r.Fields() {
		set, _ := r.HitSet(field)
		m.Hits[field] = set
	}
	m.Fragments = fragments(line, r.Hits(p.field))
	return m
}

// fragments cuts the text of every hit out of line. Hit offsets count runes.
func fragments(line string, hits []matchx.Hit) []string {
	runes := []rune(line)
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.StartOffset < 0 || h.EndOffset > len(runes) || h.StartOffset > h.EndOffset {
			continue
		}
		out = append(out, string(runes[h.StartOffset:h.EndOffset]))
	}
	return out
}

func flattenTree(in io.Reader, queryID string, docID int, score float64) (*matchx.MatchResult, error) {
	var tree matchx.MatchTree
	if err := json.NewDecoder(in).Decode(&tree); err != nil {
		return nil, err
	}
	return matchx.Flatten(queryID, docID, score, tree)
}

// mergeResults decodes a stream of match results and merges them. An empty
// queryID takes the first result's query.
func mergeResults(in io.Reader, queryID string) (*matchx.MatchResult, error) {
	dec := json.NewDecoder(in)
	var results []*matchx.MatchResult
	for {
		var r matchx.MatchResult
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode result %d", len(results))
		}
		results = append(results, &r)
	}

	if queryID == "" && len(results) > 0 {
		queryID = results[0].QueryID()
	}
	return matchx.MergeAll(queryID, results...)
}

// openInput returns the file named by the first argument, or stdin.
func openInput(c *cli.Context) (io.Reader, func(), error) {
	if c.NArg() == 0 || c.Args().First() == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

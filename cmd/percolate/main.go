package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/letmevibethatforyou/matchx/inmemory"
	"github.com/urfave/cli/v2"
)

const (
	defaultBatchSize = 1
	defaultLogLevel  = "info"
)

func main() {
	app := &cli.App{
		Name:      "percolate",
		Usage:     "Match lines read from stdin against standing queries and print the hits",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "queries-file",
				Aliases: []string{"f"},
				Usage:   "JSON file with an array of {\"id\", \"query\"} objects",
				EnvVars: []string{"PERCOLATE_QUERIES_FILE"},
			},
			&cli.StringFlag{
				Name:  "field",
				Usage: "Field name each input line is indexed under",
				Value: inmemory.DefaultField,
			},
			&cli.BoolFlag{
				Name:  "with-empty-lines",
				Usage: "Print an empty line for input that matched no query",
			},
			&cli.BoolFlag{
				Name:  "with-score",
				Usage: "Include the relevance score of every match",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of lines matched together as one batch",
				Value: defaultBatchSize,
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Maximum number of query clauses evaluated at once; 0 means unlimited",
				Value: 0,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn or error",
				Value:   defaultLogLevel,
				EnvVars: []string{"PERCOLATE_LOG_LEVEL"},
			},
		},
		Before: setupLogging,
		Action: percolateAction,
		Commands: []*cli.Command{
			{
				Name:      "flatten",
				Usage:     "Flatten a match tree read as JSON into a match result",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query-id",
						Aliases:  []string{"q"},
						Usage:    "Query identifier of the result",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "doc-id",
						Usage: "Document identifier of the result",
					},
					&cli.Float64Flag{
						Name:  "score",
						Usage: "Score of the document",
						Value: 1,
					},
				},
				Action: flattenAction,
			},
			{
				Name:      "merge",
				Usage:     "Merge a stream of JSON match results for one query and document",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query-id",
						Aliases: []string{"q"},
						Usage:   "Query identifier; defaults to the first result's",
					},
				},
				Action: mergeAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// setupLogging sends logs to stderr, keeping stdout for match output.
func setupLogging(c *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.String("log-level")))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	}
	return nil
}

func percolateAction(c *cli.Context) error {
	ctx := c.Context

	field := strings.TrimSpace(c.String("field"))
	if field == "" {
		return fmt.Errorf("field cannot be empty")
	}

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		slog.WarnContext(ctx, "batch size must be positive; falling back to default", "batch_size", batchSize, "default", defaultBatchSize)
		batchSize = defaultBatchSize
	}

	monitor := inmemory.New(
		inmemory.WithDefaultField(field),
		inmemory.WithConcurrency(c.Int("concurrency")),
		inmemory.WithLogger(slog.Default()),
	)

	queriesFile := strings.TrimSpace(c.String("queries-file"))
	switch {
	case queriesFile != "":
		f, err := os.Open(queriesFile)
		if err != nil {
			return fmt.Errorf("failed to open queries file: %w", err)
		}
		defer f.Close()

		queries, err := loadQueries(f, field)
		if err != nil {
			return fmt.Errorf("failed to load queries: %w", err)
		}
		for _, q := range queries {
			if err := monitor.Register(q); err != nil {
				return fmt.Errorf("failed to register query %q: %w", q.ID, err)
			}
		}
	case c.NArg() > 0:
		if err := monitor.RegisterText("0", strings.Join(c.Args().Slice(), " ")); err != nil {
			return fmt.Errorf("invalid query: %w", err)
		}
	default:
		return fmt.Errorf("either --queries-file or a query argument is required")
	}

	slog.InfoContext(ctx, "percolating stdin",
		"queries", monitor.Size(),
		"field", field,
		"batch_size", batchSize,
	)

	p := &percolator{
		monitor:        monitor,
		field:          field,
		batchSize:      batchSize,
		withEmptyLines: c.Bool("with-empty-lines"),
		withScore:      c.Bool("with-score"),
	}
	return p.run(ctx, os.Stdin, os.Stdout)
}

func flattenAction(c *cli.Context) error {
	in, closeFn, err := openInput(c)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := flattenTree(in, c.String("query-id"), c.Int("doc-id"), c.Float64("score"))
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, result)
}

func mergeAction(c *cli.Context) error {
	in, closeFn, err := openInput(c)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := mergeResults(in, strings.TrimSpace(c.String("query-id")))
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, result)
}

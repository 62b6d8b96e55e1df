// Package main provides the knowledge augmentation CLI entrypoint.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/storelens/knowledge-augment/internal/cache"
	"github.com/storelens/knowledge-augment/internal/classify"
	"github.com/storelens/knowledge-augment/internal/config"
	"github.com/storelens/knowledge-augment/internal/embedding"
	"github.com/storelens/knowledge-augment/internal/knowledge"
	"github.com/storelens/knowledge-augment/internal/observability"
	"github.com/storelens/knowledge-augment/internal/queryroute"
	"github.com/storelens/knowledge-augment/internal/storage"
	"github.com/storelens/knowledge-augment/internal/strategy"
	"github.com/storelens/knowledge-augment/internal/taxonomy"
	"github.com/storelens/knowledge-augment/pkg/engine"
)

var (
	cfgFile    string
	outputJSON bool
	verbose    bool

	cfg    *config.Config
	logger *observability.Logger
)

var rootCmd = &cobra.Command{
	Use:   "augment-cli",
	Short: "Inspect the knowledge augmentation pipeline from the command line",
	Long: `augment-cli runs the augmentation pipeline the assistant backend uses:
topic classification, tiered knowledge retrieval, and the external search
decision. Without database or embedding credentials it still answers from
the built-in topic corpus.

All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      "console",
			Output:      os.Stderr,
			ServiceName: "augment-cli",
		})

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAskCmd creates the ask subcommand.
func newAskCmd() *cobra.Command {
	var (
		history []string
		depth   string
		turn    int
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Run the full augmentation pipeline for one message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			eng, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " Retrieving knowledge..."
			sp.Writer = os.Stderr
			if !outputJSON {
				sp.Start()
			}

			result, err := eng.Augment(ctx, engine.Request{
				Message:       message,
				History:       history,
				QuestionDepth: depth,
				TurnCount:     turn,
				Limit:         limit,
			})
			if !outputJSON {
				sp.Stop()
			}
			if err != nil {
				return fmt.Errorf("augment: %w", err)
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(result)
			}

			printResult(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&history, "history", nil, "prior user turn, repeatable, oldest first")
	cmd.Flags().StringVar(&depth, "depth", "", "question depth: basic, intermediate, advanced")
	cmd.Flags().IntVar(&turn, "turn", 0, "conversation turn count")
	cmd.Flags().IntVar(&limit, "limit", 0, "max knowledge passages (default from config)")

	return cmd
}

// newTopicsCmd creates the topics subcommand.
func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the topic corpus the classifier works against",
		RunE: func(cmd *cobra.Command, args []string) error {
			tax, err := loadTaxonomy()
			if err != nil {
				return err
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(tax.Topics())
			}

			header := color.New(color.FgCyan, color.Bold)
			dim := color.New(color.Faint)
			for _, t := range tax.Topics() {
				marker := ""
				if t.ID == tax.DefaultTopicID() {
					marker = " (default)"
				}
				header.Printf("%s%s\n", t.ID, marker)
				fmt.Printf("  keywords: %s\n", strings.Join(t.Keywords, ", "))
				if len(t.LocalizedKeywords) > 0 {
					fmt.Printf("  localized: %s\n", strings.Join(t.LocalizedKeywords, ", "))
				}
				if t.SearchHint != "" {
					dim.Printf("  search hint: %s\n", t.SearchHint)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("augment-cli 0.3.0")
		},
	}
}

// printResult renders the pipeline output in sections.
func printResult(result *engine.Result) {
	header := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	header.Println("Classification")
	fmt.Printf("  topic: %s (confidence %.2f)\n", result.Classification.PrimaryTopicID, result.Classification.Confidence)
	if result.Classification.SecondaryTopicID != "" {
		fmt.Printf("  secondary: %s\n", result.Classification.SecondaryTopicID)
	}
	if len(result.Classification.MatchedKeywords) > 0 {
		dim.Printf("  matched: %s\n", strings.Join(result.Classification.MatchedKeywords, ", "))
	}

	fmt.Println()
	header.Printf("Knowledge (%s)\n", result.Knowledge.Method)
	if result.Knowledge.UsedFallback {
		warn.Println("  served from a fallback tier")
	}
	for i, r := range result.Knowledge.Results {
		fmt.Printf("  %d. [%.2f] %s\n", i+1, r.Similarity, r.Title)
		dim.Printf("     %s\n", firstLine(r.Content))
	}

	fmt.Println()
	header.Println("Search strategy")
	if result.Strategy.ShouldSearch {
		good.Println("  external search recommended")
		for _, q := range result.Strategy.Queries {
			fmt.Printf("  p%d %-4s %s\n", q.Priority, q.Type, q.Query)
		}
	} else {
		fmt.Println("  no external search")
	}
	dim.Printf("  reason: %s\n", result.Strategy.Reason)
	if len(result.Strategy.RouteResult.DetectedEntities) > 0 {
		dim.Printf("  entities: %s\n", strings.Join(result.Strategy.RouteResult.DetectedEntities, ", "))
	}
	dim.Printf("  latency: %dms\n", result.LatencyMs)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > 80 {
		return string(runes[:80]) + "..."
	}
	return s
}

func loadTaxonomy() (*taxonomy.Taxonomy, error) {
	if cfg.Taxonomy.Path != "" {
		return taxonomy.Load(cfg.Taxonomy.Path)
	}
	return taxonomy.Default(), nil
}

// buildEngine wires the pipeline the same way the API server does, degrading
// to the static tier when store or embedding credentials are absent.
func buildEngine() (*engine.Engine, func(), error) {
	tax, err := loadTaxonomy()
	if err != nil {
		return nil, nil, err
	}

	lex := queryroute.DefaultLexicon()
	if cfg.Router.LexiconPath != "" {
		lex, err = queryroute.LoadLexicon(cfg.Router.LexiconPath)
		if err != nil {
			return nil, nil, err
		}
	}

	var db *sql.DB
	var store knowledge.Store
	if cfg.Database.DSN != "" {
		db, err = storage.Open(storage.PostgresConfig{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("knowledge store unavailable, static tier only")
			db = nil
		} else {
			store = storage.NewChunkRepository(db)
		}
	}

	var embedder embedding.Embedder
	if cfg.Embedding.APIKey != "" {
		client, err := embedding.NewClient(embedding.Config{
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
			BaseURL: cfg.Embedding.BaseURL,
			Timeout: cfg.Embedding.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		embedder = client
	}

	adapter := knowledge.New(logger, store, embedder, tax, knowledge.Config{
		VectorTimeout:    cfg.Retrieval.VectorTimeout,
		VectorThreshold:  cfg.Retrieval.VectorThreshold,
		MinUsefulResults: cfg.Retrieval.MinUsefulResults,
		TrigramThreshold: cfg.Retrieval.TrigramThreshold,
		StaticSimilarity: cfg.Retrieval.StaticSimilarity,
		DefaultLimit:     cfg.Retrieval.DefaultLimit,
	})

	planner := strategy.New(queryroute.New(lex, tax), tax, strategy.Config{
		SufficiencyThreshold: cfg.Strategy.SufficiencyThreshold,
		DeepeningBonus:       cfg.Strategy.DeepeningBonus,
		CrossReferenceBonus:  cfg.Strategy.CrossReferenceBonus,
		MaxEntityQueries:     cfg.Strategy.MaxEntityQueries,
		QueryRuneLimit:       cfg.Strategy.QueryRuneLimit,
	})

	// One-shot invocations cache in memory only.
	memCache := cache.NewMemoryClient(cfg.Cache.MaxEntries)
	eng := engine.New(logger, classify.New(tax), adapter, planner, memCache, cfg.Cache.TTL)

	cleanup := func() {
		if db != nil {
			db.Close()
		}
	}
	return eng, cleanup, nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlasmv/atlas/internal/cache"
	"github.com/atlasmv/atlas/internal/ledger"
	"github.com/atlasmv/atlas/internal/llm"
	"github.com/atlasmv/atlas/internal/model"
	"github.com/atlasmv/atlas/internal/pipeline"
	"github.com/atlasmv/atlas/internal/research"
	"github.com/atlasmv/atlas/internal/store"
)

var (
	industry      string
	geography     string
	customerType  string
	businessModel string
	price         float64
	notes         string
	knownRisks    []string
	debugOut      bool

	seedSources []string
	outJSON     string
	outMD       string
	storeDir    string

	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	insecureTLS bool

	llmEnabled  bool
	llmProvider string
	llmModel    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <idea>",
	Short: "Analyze market viability of a startup idea",
	Long: `Analyze collects evidence from seed sources, builds a TAM/SAM/SOM
market model, runs scenarios and sensitivity analysis, assesses risks,
and renders a GO / NO-GO / CONDITIONAL verdict.

Example:
  atlas analyze "AI bookkeeping for food trucks" \
    --industry fintech --geography US --customer-type smb --business-model saas \
    --source https://www.ibisworld.com/food-trucks \
    --source https://www.statista.com/bookkeeping \
    --json report.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&industry, "industry", "", "industry of the idea (required)")
	analyzeCmd.Flags().StringVar(&geography, "geography", "", "target geography (required)")
	analyzeCmd.Flags().StringVar(&customerType, "customer-type", "", "customer type: enterprise, smb, consumer (required)")
	analyzeCmd.Flags().StringVar(&businessModel, "business-model", "", "business model, e.g. saas, marketplace (required)")
	analyzeCmd.Flags().Float64Var(&price, "price", 0, "price assumption in USD (optional)")
	analyzeCmd.Flags().StringVar(&notes, "notes", "", "free-form notes attached to the request; lines prefixed \"risk:\" feed the risk assessor")
	analyzeCmd.Flags().StringArrayVar(&knownRisks, "risk", nil, "known risk statement to include in the assessment (repeatable)")
	analyzeCmd.Flags().BoolVar(&debugOut, "debug", false, "include the full evidence ledger in the output")

	analyzeCmd.Flags().StringArrayVar(&seedSources, "source", nil, "seed source URL to collect evidence from (repeatable)")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	analyzeCmd.Flags().StringVar(&storeDir, "store", "", "directory to persist the decision (default: $HOME/.atlas)")

	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "Atlas/0.1 (+https://github.com/atlasmv/atlas)", "HTTP User-Agent")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read per source")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the page cache (force fresh fetches)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")

	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	req := model.AnalyzeRequest{
		Idea:          args[0],
		Industry:      industry,
		Geography:     geography,
		CustomerType:  customerType,
		BusinessModel: businessModel,
		Risks:         knownRisks,
		Notes:         notes,
		Debug:         debugOut,
	}
	if cmd.Flags().Changed("price") {
		req.PriceAssumption = &price
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()

	var opts []pipeline.Option
	if len(seedSources) > 0 {
		finder := &research.StaticFinder{URLs: seedSources}
		urls, err := finder.Find(ctx, req.Idea, cfg.Research.MaxSources)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithCollector(newCollector(cfg), urls))
	}
	if llmEnabled {
		summarizer, err := newSummarizer(cfg)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithSummarizer(summarizer))
	}

	dir := storeDir
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = home + "/.atlas"
		}
	}
	if dir != "" {
		st, err := store.NewFileStore(dir)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithStore(st))
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", req.Idea)
		fmt.Fprintf(os.Stderr, "Seed sources: %d\n", len(seedSources))
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, opts...)
	result, err := p.Analyze(ctx, req, ledger.New())
	if err != nil {
		return err
	}

	return renderOutputs(cfg, result)
}

func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.StrictSources = true
	}
	return cfg
}

func newCollector(cfg *model.Config) *research.Collector {
	var pageCache cache.Cache
	if cfg.Cache.Enabled {
		pageCache = cache.NewMemory(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}
	fetcher := research.NewFetcher(cfg.HTTP, cfg.Research, pageCache, cfg.Cache.TTL)
	return research.NewCollector(
		fetcher,
		research.NewPatternExtractor(),
		research.NewCredibilityClassifier(cfg.Credibility),
		cfg.Research,
	)
}

func newSummarizer(cfg *model.Config) (*llm.Summarizer, error) {
	if cfg.LLM.Provider == "openai" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	return llm.NewSummarizer(cfg.LLM)
}

func renderOutputs(cfg *model.Config, result *pipeline.Result) error {
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	if outJSON != "" {
		data, err := renderer.RenderJSON(result.Report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outJSON, []byte(data), 0o644); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "JSON report: %s\n", outJSON)
		}
	}

	if outMD != "" {
		md := renderer.RenderMarkdown(result.Report)
		if result.Narrative != "" {
			md += renderer.RenderNarrative(result.Narrative)
		}
		if err := os.WriteFile(outMD, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write Markdown report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Markdown report: %s\n", outMD)
		}
	}

	fmt.Print(renderer.RenderSummary(result.Report))
	if result.Narrative != "" && outMD == "" {
		fmt.Println()
		fmt.Println(result.Narrative)
	}
	return nil
}

package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/pmtable/internal/extract"
	"github.com/ppiankov/pmtable/internal/model"
	"github.com/ppiankov/pmtable/internal/parse"
	"github.com/ppiankov/pmtable/internal/stats"
	"go.uber.org/zap"
)

// Pipeline runs fetch, extract, parse and aggregate for one source page
type Pipeline struct {
	fetcher   *Fetcher
	extractor *extract.Extractor
	parser    *parse.Parser
	renderer  *Renderer
	config    *model.Config
	logger    *zap.Logger
}

// NewPipeline creates a pipeline; terminal summaries are written to out
func NewPipeline(cfg *model.Config, logger *zap.Logger, out io.Writer) *Pipeline {
	return &Pipeline{
		fetcher:   NewFetcher(cfg, logger),
		extractor: extract.NewExtractor(cfg.Source.Selector, cfg.Source.Column),
		parser:    parse.NewParser(cfg.ReferenceYear),
		renderer:  NewRenderer(cfg.Output.ChartWidth, out),
		config:    cfg,
		logger:    logger,
	}
}

// Run builds a report from the configured source. Any stage failure halts
// the run and no partial report is returned.
func (p *Pipeline) Run(ctx context.Context) (*model.Report, error) {
	url := p.config.Source.URL

	// 1. Fetch (or read the cached copy)
	fetched, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	// 2. Pull the biography column out of the table
	raws, err := p.extractor.Extract(fetched.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	p.logger.Debug("extracted biography cells", zap.Int("rows", len(raws)))

	// 3. Parse into records
	records, err := p.parser.ParseAll(raws)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	// 4. Aggregate
	summary, err := stats.Summarize(records)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	p.logger.Info("report built",
		zap.String("url", url),
		zap.Bool("from_cache", fetched.Meta.FromCache),
		zap.Int("records", len(records)),
		zap.Int("reference_year", p.parser.ReferenceYear()))

	return &model.Report{
		RunID:         uuid.NewString(),
		SourceURL:     fetched.FinalURL,
		GeneratedAt:   time.Now().UTC(),
		ReferenceYear: p.parser.ReferenceYear(),
		FetchMeta:     fetched.Meta,
		Records:       records,
		Stats:         summary,
	}, nil
}

// RenderReport writes the configured output files and prints the summary
func (p *Pipeline) RenderReport(report *model.Report) error {
	out := p.config.Output

	if out.JSON != "" {
		if err := p.renderer.RenderJSON(report, out.JSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logger.Info("wrote report", zap.String("format", "json"), zap.String("path", out.JSON))
	}

	if out.CSV != "" {
		if err := p.renderer.RenderCSV(report, out.CSV); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		p.logger.Info("wrote report", zap.String("format", "csv"), zap.String("path", out.CSV))
	}

	if out.Markdown != "" {
		if err := p.renderer.RenderMarkdown(report, out.Markdown); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.logger.Info("wrote report", zap.String("format", "markdown"), zap.String("path", out.Markdown))
	}

	p.renderer.RenderSummary(report)
	return nil
}

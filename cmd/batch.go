package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var (
	batchInputPath string
	batchLimit     int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch enrich businesses from a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		businesses, err := readBusinesses(batchInputPath)
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(businesses) > batchLimit {
			businesses = businesses[:batchLimit]
		}
		if len(businesses) == 0 {
			zap.L().Info("no businesses in input file")
			return nil
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		summary, err := processBatch(ctx, env.Store, env.Orch, env.Toggles, businesses, batchOptions{
			Concurrency: cfg.Batch.Concurrency,
			BatchSize:   cfg.Batch.BatchSize,
			BatchDelay:  time.Duration(cfg.Batch.BatchDelaySecs) * time.Second,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInputPath, "input", "", "path to CSV or XLSX file (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of rows to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// BatchItem is the per-row outcome of a batch run.
type BatchItem struct {
	BusinessName string                 `json:"business_name"`
	LeadID       string                 `json:"lead_id,omitempty"`
	Status       model.EnrichmentStatus `json:"status"`
	Score        int                    `json:"score"`
	Rank         model.PriorityRank     `json:"rank"`
	Error        string                 `json:"error,omitempty"`
}

// BatchSummary is the aggregate result printed after a batch run.
type BatchSummary struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

type batchOptions struct {
	Concurrency int
	BatchSize   int
	BatchDelay  time.Duration
}

// processBatch enriches businesses through a bounded worker pool,
// pausing between batches to stay polite to the upstream APIs. Item
// order in the summary follows input order.
func processBatch(ctx context.Context, st store.Store, orch *enrich.Orchestrator, toggles enrich.FeatureToggles, businesses []model.BasicBusiness, opts batchOptions) (*BatchSummary, error) {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = len(businesses)
	}

	zap.L().Info("processing batch",
		zap.Int("businesses", len(businesses)),
		zap.Int("concurrency", opts.Concurrency),
	)

	items := make([]BatchItem, len(businesses))
	var mu sync.Mutex

	for start := 0; start < len(businesses); start += opts.BatchSize {
		if start > 0 && opts.BatchDelay > 0 {
			select {
			case <-time.After(opts.BatchDelay):
			case <-ctx.Done():
				return nil, eris.Wrap(ctx.Err(), "batch: cancelled")
			}
		}

		end := start + opts.BatchSize
		if end > len(businesses) {
			end = len(businesses)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)

		for i := start; i < end; i++ {
			i := i
			biz := businesses[i]
			if strings.TrimSpace(biz.Name) == "" {
				// Rejected before any pipeline work, reported per item.
				mu.Lock()
				items[i] = BatchItem{
					Status: model.EnrichmentStatusFailed,
					Error:  "business name is required",
				}
				mu.Unlock()
				continue
			}
			g.Go(func() error {
				lead := orch.Enrich(gctx, biz, toggles)

				item := BatchItem{
					BusinessName: lead.BusinessName,
					LeadID:       lead.ID,
					Status:       lead.Enrichment.Status,
				}
				if lead.LeadScore != nil {
					item.Score = lead.LeadScore.Total
					item.Rank = lead.LeadScore.PriorityRank
				}
				if len(lead.Enrichment.Errors) > 0 {
					item.Error = strings.Join(lead.Enrichment.Errors, "; ")
				}

				if err := st.SaveLead(gctx, lead); err != nil {
					zap.L().Error("save lead failed",
						zap.String("business", biz.Name), zap.Error(err))
					item.Error = err.Error()
					item.Status = model.EnrichmentStatusFailed
				}

				mu.Lock()
				items[i] = item
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, eris.Wrap(err, "batch processing")
		}
	}

	summary := &BatchSummary{Items: items}
	for _, item := range items {
		if item.Status == model.EnrichmentStatusFailed {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}

	zap.L().Info("batch complete",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// readBusinesses loads input rows from a CSV or XLSX file. The first
// row is a header; columns are matched by name, case-insensitive.
func readBusinesses(path string) ([]model.BasicBusiness, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx":
		rows, err = readXLSXRows(path)
	default:
		return nil, eris.Errorf("batch: unsupported input format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	cols := headerIndex(rows[0])
	nameCol, ok := cols["name"]
	if !ok {
		nameCol, ok = cols["business_name"]
	}
	if !ok {
		return nil, eris.New("batch: input has no name column")
	}

	cell := func(row []string, key string) string {
		idx, ok := cols[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var businesses []model.BasicBusiness
	for _, row := range rows[1:] {
		if nameCol >= len(row) || strings.TrimSpace(row[nameCol]) == "" {
			continue
		}
		biz := model.BasicBusiness{
			Name:        strings.TrimSpace(row[nameCol]),
			Website:     cell(row, "website"),
			Postcode:    cell(row, "postcode"),
			Address:     cell(row, "address"),
			Phone:       cell(row, "phone"),
			Email:       cell(row, "email"),
			Industry:    cell(row, "industry"),
			Rating:      cell(row, "rating"),
			ReviewCount: cell(row, "reviews"),
		}
		if biz.ReviewCount == "" {
			biz.ReviewCount = cell(row, "review_count")
		}
		businesses = append(businesses, biz)
	}
	return businesses, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read csv")
	}
	return rows, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("batch: xlsx has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/mslanden/marketpress/pkg/runtime/terminal/export"
	"github.com/mslanden/marketpress/pkg/services/config"
	exportsvc "github.com/mslanden/marketpress/pkg/services/export"

	"github.com/spf13/cobra"
)

var chartSlots = []string{
	domain.ChartPricePerArea,
	domain.ChartMedianSoldPrice,
	domain.ChartDaysOnMarket,
	domain.ChartStatusBreakdown,
	domain.ChartPriceRange,
	domain.ChartMarketTemp,
}

type ExportCmd struct {
	region   string
	month    int
	year     int
	outDir   string
	analysis string
	summary  string
	exporter *exportsvc.Exporter
	regions  config.Registry
	reporter *export.Reporter
}

func NewExportCmd(exporter *exportsvc.Exporter, regions config.Registry, reporter *export.Reporter) *cobra.Command {
	ec := &ExportCmd{exporter: exporter, regions: regions, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate a market newsletter PDF",
		RunE:  ec.run,
	}

	// Define flags
	cmd.Flags().StringVar(&ec.region, "region", "", "Region to report on (e.g., anza)")
	cmd.Flags().IntVar(&ec.month, "month", 0, "Report month (1-12)")
	cmd.Flags().IntVar(&ec.year, "year", 0, "Report year")
	cmd.Flags().StringVar(&ec.outDir, "out", ".", "Directory to write the PDF into")
	cmd.Flags().StringVar(&ec.analysis, "analysis", "", "Override the market analysis text")
	cmd.Flags().StringVar(&ec.summary, "summary", "", "Override the summary text")

	// Mark required flags
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	region := domain.Region(ec.region)
	period := domain.Period{Month: ec.month, Year: ec.year}

	opts := exportsvc.AggregateOptions{}
	if ec.analysis != "" || ec.summary != "" {
		opts.Narrative = &domain.Narrative{Analysis: ec.analysis, Summary: ec.summary}
	}

	_, charts, err := ec.exporter.Preview(ctx, region, period, opts)
	if err != nil {
		return err
	}

	doc, err := ec.exporter.Export(ctx, region, period, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(ec.outDir, doc.Filename)
	if err := os.WriteFile(path, doc.Bytes, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	summary := &export.Summary{
		Region:   ec.region,
		Period:   exportsvc.PeriodLabel(ec.month, ec.year),
		Filename: doc.Filename,
		Path:     path,
		Pages:    doc.Pages,
		Bytes:    len(doc.Bytes),
	}
	for _, slot := range chartSlots {
		if spec, ok := charts[slot]; ok {
			summary.ChartsDrawn = append(summary.ChartsDrawn, spec.Title)
		} else {
			summary.ChartsOmitted = append(summary.ChartsOmitted, slot)
		}
	}

	return ec.reporter.Handle(summary)
}

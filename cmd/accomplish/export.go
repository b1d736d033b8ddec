package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/export"
	"github.com/ganot/accomplish/internal/period"
	"github.com/ganot/accomplish/internal/stats"
)

var exportFlags struct {
	format  string
	bucket  string
	project string
	year    string
	sort    string
	out     string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an activities report as csv, excel, pdf or png",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.format, "format", "csv", "csv, excel, pdf or png")
	f.StringVar(&exportFlags.bucket, "bucket", "all", "period bucket: all, Q1-Q4, S1 or S2")
	f.StringVar(&exportFlags.project, "project", "", "project name")
	f.StringVar(&exportFlags.year, "year", "", "year")
	f.StringVar(&exportFlags.sort, "sort", "", "asc or desc by month (defaults to export.default_sort)")
	f.StringVarP(&exportFlags.out, "out", "o", "", "output file or directory; - for stdout (default: generated name)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	format, err := export.ParseFormat(exportFlags.format)
	if err != nil {
		return err
	}

	a, err := openApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	bucket := period.ParseBucket(exportFlags.bucket)
	name := exportFlags.project
	if name == "all" {
		name = ""
	}

	var render func(io.Writer) (*export.Artifact, error)
	if format == export.FormatPNG {
		d, err := a.stats.Dashboard(ctx, stats.Filter{Project: name, Year: exportFlags.year, Bucket: bucket})
		if err != nil {
			return err
		}
		render = func(w io.Writer) (*export.Artifact, error) { return a.exporter.Chart(w, d) }
	} else {
		acts, err := a.activities.List(ctx, activity.ListOptions{Project: name, Year: exportFlags.year, Bucket: bucket})
		if err != nil {
			return err
		}
		order := period.ParseOrder(exportFlags.sort, a.defaultSort())
		render = func(w io.Writer) (*export.Artifact, error) { return a.exporter.Export(w, format, acts, order) }
	}

	if exportFlags.out == "-" {
		_, err := render(cmd.OutOrStdout())
		return err
	}

	path := exportFlags.out
	if path == "" || isDir(path) {
		path = filepath.Join(path, export.Filename(format, time.Now()))
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	art, err := render(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", art.Records, path)
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

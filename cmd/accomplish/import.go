package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ganot/accomplish/internal/importer"
)

var importStrict bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import activities from a CSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importStrict, "strict", false, "reject rows with unreadable numbers")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	if cmd.Flags().Changed("strict") {
		cfg.Import.StrictNumbers = importStrict
	}

	format, err := importer.DetectFormat("", args[0])
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	a, err := openApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.importer.ImportFile(cmd.Context(), f, format)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

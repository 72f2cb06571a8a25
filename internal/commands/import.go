package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kkb-dev/kkb/internal/importer"
	"github.com/kkb-dev/kkb/internal/logger"
)

func newImportCommand(opts *options) *cobra.Command {
	var format, bank, offset string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Post a bank statement CSV",
		Long: "Post a bank statement CSV as one transaction per row against --bank and --offset.\n" +
			"Without a file, every CSV in <data-dir>/import is posted and then moved to import/processed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			registry := importer.DefaultRegistry()
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(registry.Formats(), ", "))
			}
			bankAcct, err := resolveAccount(e.store, bank)
			if err != nil {
				return fmt.Errorf("--bank: %w", err)
			}
			offsetAcct, err := resolveAccount(e.store, offset)
			if err != nil {
				return fmt.Errorf("--offset: %w", err)
			}

			var files []importer.FileInfo
			scanned := len(args) == 0
			if scanned {
				files, err = importer.Scan(e.dataDir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Nothing to import in %s\n", filepath.Join(e.dataDir, importer.Dir))
					return nil
				}
			} else {
				files = []importer.FileInfo{{Name: filepath.Base(args[0]), Path: args[0]}}
			}

			log := logger.WithComponent(e.log, "import")
			for _, fi := range files {
				rows, err := parseFile(parser, fi.Path)
				if err != nil {
					return err
				}

				created, postErr := importer.Post(e.store, rows, bankAcct.ID, offsetAcct.ID)
				if len(created) > 0 {
					msg := fmt.Sprintf("import: %d transactions from %s", len(created), fi.Name)
					if err := e.save(cmd, msg); err != nil {
						return err
					}
				}
				log.Info().Str("file", fi.Name).Int("posted", len(created)).Int("rows", len(rows)).Msg("statement imported")
				fmt.Fprintf(cmd.OutOrStdout(), "%s: posted %d of %d rows\n", fi.Name, len(created), len(rows))
				if postErr != nil {
					return fmt.Errorf("%s: %w", fi.Name, postErr)
				}

				if scanned {
					if err := importer.MarkProcessed(e.dataDir, fi.Name); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "simple", "statement format")
	cmd.Flags().StringVar(&bank, "bank", "", "bank account id or name (required)")
	cmd.Flags().StringVar(&offset, "offset", "", "account id or name to post the other side to (required)")
	_ = cmd.MarkFlagRequired("bank")
	_ = cmd.MarkFlagRequired("offset")
	return cmd
}

func parseFile(p importer.Parser, path string) ([]importer.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

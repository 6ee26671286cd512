package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/backup"
	"github.com/fintrack-dev/fintrack/internal/period"
	"github.com/fintrack-dev/fintrack/internal/runlog"
)

func newExportCommand(g *globals) *cobra.Command {
	var outPath string
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data as JSON, or transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, false, func(a *app) error {
				var buf bytes.Buffer
				if asCSV {
					txns, err := a.store.LoadTransactions(a.ctx)
					if err != nil {
						return err
					}
					if err := backup.WriteTransactionsCSV(&buf, txns); err != nil {
						return err
					}
				} else {
					data, err := backup.Export(a.ctx, a.store.KV())
					if err != nil {
						return err
					}
					buf.Write(data)
					buf.WriteByte('\n')
				}

				if outPath == "" {
					_, err := a.out.Write(buf.Bytes())
					return err
				}
				if outPath == "auto" {
					outPath = fmt.Sprintf("fintrack_backup_%s.json", period.Day(a.clock.Now()))
					if asCSV {
						outPath = strings.TrimSuffix(outPath, ".json") + ".csv"
					}
				}
				if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}
				a.printf("Exported to %s\n", outPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", `output file ("auto" names it by date; default stdout)`)
	cmd.Flags().BoolVar(&asCSV, "csv", false, "export transactions as CSV")
	return cmd
}

func newImportCommand(g *globals) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a JSON backup, or merge transactions from CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return g.run(cmd, false, func(a *app) error {
				if asCSV {
					incoming, err := backup.ReadTransactionsCSV(bytes.NewReader(data))
					if err != nil {
						return err
					}
					existing, err := a.store.LoadTransactions(a.ctx)
					if err != nil {
						return err
					}
					merged, added := backup.MergeTransactions(existing, incoming)
					if err := a.store.SaveTransactions(a.ctx, merged); err != nil {
						return err
					}
					a.printf("Imported %d of %d transactions\n", added, len(incoming))
					return a.audit(runlog.ComponentImport, "merge_csv",
						fmt.Sprintf("%d of %d transactions", added, len(incoming)), args[0], "")
				}

				keys, err := backup.Import(a.ctx, a.store.KV(), data)
				if err != nil {
					return err
				}
				a.printf("Imported %s\n", strings.Join(keys, ", "))
				if err := a.audit(runlog.ComponentImport, "restore", strings.Join(keys, " "), args[0], ""); err != nil {
					return err
				}

				report, err := a.load()
				printReport(a, report)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "merge transactions from CSV")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

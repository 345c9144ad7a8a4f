package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/fransbot/internal/database"
	"github.com/example/fransbot/internal/excel"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored sentences with an .xlsx or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		cfg := excel.DefaultImportConfig()
		cfg.FilePath = args[0]
		cfg.SheetName, _ = cmd.Flags().GetString("sheet")
		cfg.StartRow, _ = cmd.Flags().GetInt("start-row")

		result, err := excel.LoadItems(cfg)
		if errors.Is(err, excel.ErrNoItems) {
			printErrors(cmd, result.Errors)
			return fmt.Errorf("%s contains no valid sentences", args[0])
		}
		if err != nil {
			return err
		}

		db, err := openDatabase(config)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.NewItemRepository(db).ReplaceAll(context.Background(), result.Items); err != nil {
			return err
		}

		printErrors(cmd, result.Errors)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sentences (%d rows processed, %d skipped).\n",
			len(result.Items), result.TotalProcessed, result.Skipped)
		return nil
	},
}

func printErrors(cmd *cobra.Command, errs []string) {
	for _, e := range errs {
		fmt.Fprintln(cmd.ErrOrStderr(), "skipped:", e)
	}
}

func init() {
	importCmd.Flags().String("sheet", "", "Worksheet to read (defaults to the first sheet)")
	importCmd.Flags().Int("start-row", 2, "First data row, rows above it are headers")
}

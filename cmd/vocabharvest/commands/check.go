package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/vocabharvest/internal/logger"
	"github.com/jmylchreest/vocabharvest/internal/vocab"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a vocabulary CSV",
	Long: `Check that a CSV file has the "Spanish","English" header exactly once as
its first row, and that every other row has two fields that the harvester
would have accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path) //#nosec G304 -- CLI tool reads a user-specified file
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	logger.Debug("checking csv", "path", path, "size", humanize.Bytes(uint64(len(data))))

	rows, err := vocab.DecodeCSV(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := vocab.Check(rows); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	ok := color.New(color.FgGreen, color.Bold).Sprint("ok")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s pairs\n", ok, path, humanize.Comma(int64(len(rows)-1)))
	return err
}

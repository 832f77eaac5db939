// Package batch handles batch classification of mutation exports
package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"nvv/ebh-import/cmd/root"
	"nvv/ebh-import/internal/common"
	"nvv/ebh-import/internal/container"
	"nvv/ebh-import/internal/fileutils"
	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/report"
	"nvv/ebh-import/internal/validation"
	"nvv/ebh-import/internal/xmlutils"
)

var (
	noProgress bool
	reportFile string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify a mutation export",
	Long: `Classify every mutation of a CSV or XML e-Boekhouden export and write one
CSV row per line item with its category, item metadata and counterparty.

When the input is a directory, every .csv and .xml file below it is
classified into the output directory.

Example:
  ebh-import batch -i mutaties-2024.xml -o mutaties-2024-classified.csv
  ebh-import batch -i exports/ -o classified/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		if root.SharedFlags.Input == "" {
			return fmt.Errorf("input file or directory must be specified")
		}

		var progressOut io.Writer
		if !noProgress {
			progressOut = cmd.ErrOrStderr()
		}
		stats, err := Run(cmd.Context(), c, root.SharedFlags.Input, root.SharedFlags.Output, progressOut)
		if err != nil {
			return err
		}
		if reportFile != "" {
			gen := report.NewReportGenerator(c.GetLogger())
			if err := gen.WriteReport(gen.Build(stats, nil), reportFile); err != nil {
				return err
			}
		}
		return PrintSummary(cmd.OutOrStdout(), stats)
	},
}

func init() {
	Cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	Cmd.Flags().StringVar(&reportFile, "report", "", "Write a JSON or YAML run report to this file")
}

// Run classifies input, a file or a directory, and writes the classified
// CSV files. output defaults to the input's directory. The statistics of
// every file are returned in input order. progressOut may be nil.
func Run(ctx context.Context, c *container.Container, input, output string, progressOut io.Writer) ([]*models.ImportStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	if err := validation.IsValidPath(input); err != nil {
		return nil, err
	}

	if !fileutils.DirectoryExists(input) {
		if output == "" {
			output = fileutils.OutputPath(input, filepath.Dir(input))
		}
		stats, err := processFile(ctx, c, input, output, progressOut)
		if err != nil {
			return nil, err
		}
		return []*models.ImportStats{stats}, nil
	}

	if output == "" {
		output = input
	}
	if err := fileutils.EnsureDirectoryExists(output); err != nil {
		return nil, err
	}

	files, err := fileutils.ListFilesWithExtension(input, ".csv", ".xml")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("No supported files found in input directory",
			logging.Field{Key: logging.FieldFile, Value: input})
		return nil, nil
	}
	logger.Info("Found files for processing", logging.Field{Key: logging.FieldCount, Value: len(files)})

	var all []*models.ImportStats
	for _, file := range files {
		stats, err := processFile(ctx, c, file, fileutils.OutputPath(file, output), progressOut)
		if err != nil {
			if ctx.Err() != nil {
				return all, err
			}
			logger.WithError(err).Error("Failed to classify file",
				logging.Field{Key: logging.FieldFile, Value: file})
			continue
		}
		all = append(all, stats)
	}
	return all, nil
}

func processFile(ctx context.Context, c *container.Container, input, output string, progressOut io.Writer) (*models.ImportStats, error) {
	logger := c.GetLogger().WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: input},
		logging.Field{Key: logging.FieldOutputFile, Value: output})

	mutations, err := ReadMutations(input, c.CSVDelimiter(), logger)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	var onProgress func(int)
	if progressOut != nil {
		bar = newProgressBar(len(mutations), filepath.Base(input), progressOut)
		onProgress = func(done int) {
			if err := bar.Set(done); err != nil {
				logger.WithError(err).Debug("Failed to update progress bar")
			}
		}
	}

	p, err := c.NewProcessor(onProgress)
	if err != nil {
		return nil, err
	}
	result, err := p.ProcessAll(ctx, mutations)
	if err != nil {
		return nil, fmt.Errorf("failed to classify %s: %w", input, err)
	}
	if bar != nil {
		if err := bar.Finish(); err != nil {
			logger.WithError(err).Debug("Failed to finish progress bar")
		}
	}

	rows := common.ToClassifiedRows(result.Mutations, c.GetConfig().Naming.ReferencePrefix)
	if err := common.WriteCSVFile(output, rows, c.CSVDelimiter(), logger); err != nil {
		return nil, err
	}

	logger.Info("Classified mutation export",
		logging.Field{Key: logging.FieldRunID, Value: result.RunID},
		logging.Field{Key: logging.FieldCount, Value: len(result.Mutations)})
	return result.Stats, nil
}

// ReadMutations reads a CSV or XML mutation export after checking its format.
func ReadMutations(path string, delimiter rune, logger logging.Logger) ([]models.Mutation, error) {
	format, err := validation.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case validation.FormatXML:
		return xmlutils.ReadMutations(path, logger)
	default:
		rows, err := common.ReadCSVFile[common.MutationRow](path, delimiter, logger)
		if err != nil {
			return nil, err
		}
		return common.RowsToMutations(rows, filepath.Base(path))
	}
}

func newProgressBar(total int, name string, out io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Classifying "+name),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(out)
		}),
	)
}

// PrintSummary writes a human readable summary of the runs to out.
func PrintSummary(out io.Writer, runs []*models.ImportStats) error {
	for _, s := range runs {
		if s == nil {
			continue
		}
		if _, err := fmt.Fprintf(out,
			"Run %s: %d mutations, %d lines, %d failed, %d bank cost lines\n"+
				"Parties: %d provisional, %d unresolved, %.1f%% resolved\n",
			s.RunID, s.Mutations, s.Lines, s.Failed, s.BankCosts,
			s.Provisional(), s.Unresolved, s.ResolutionRate()); err != nil {
			return err
		}
		for _, name := range s.SortedCategories() {
			if _, err := fmt.Fprintf(out, "  %-28s %d\n", name, s.Categories[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Package common provides the CSV import and export shared by the commands.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/parsererror"
)

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, delimiter rune, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrNop(logger)
	logger.Info("Reading CSV file", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows, err := ReadCSV[TCSVRow](file, delimiter)
	if err != nil {
		return nil, err
	}

	logger.Info("Successfully read CSV data", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// ReadCSV reads CSV data from r into a slice of structs.
func ReadCSV[TCSVRow any](r io.Reader, delimiter rune) ([]TCSVRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, fmt.Errorf("error parsing CSV file: %w", parsererror.ErrEmptyInput)
		}
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	return rows, nil
}

// WriteCSV writes rows to w with the given delimiter.
func WriteCSV[TCSVRow any](w io.Writer, rows []TCSVRow, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteCSVFile writes rows to csvFile, creating parent directories as needed.
func WriteCSVFile[TCSVRow any](csvFile string, rows []TCSVRow, delimiter rune, logger logging.Logger) error {
	logger = logging.OrNop(logger)
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}

	if dir := filepath.Dir(csvFile); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteCSV(file, rows, delimiter); err != nil {
		return err
	}

	logger.Info("Successfully wrote CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}

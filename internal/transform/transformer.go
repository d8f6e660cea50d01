package transform

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonesrussell/datasync/internal/logger"
)

// ErrMalformedTable is returned when a source file has no header row.
// It is isolated to that dataset, never fatal to the batch.
var ErrMalformedTable = errors.New("malformed table")

// Result pairs a normalized file with its source dataset and records the
// header mapping that was applied.
type Result struct {
	// Identifier is the source dataset identifier.
	Identifier string
	// Path is the local path of the normalized file.
	Path string
	// OriginalHeaders are the header cells as read from the raw file.
	OriginalHeaders []string
	// CleanedHeaders are the normalized header cells, index-aligned
	// with OriginalHeaders.
	CleanedHeaders []string
}

// Transformer rewrites the header row of CSV files.
type Transformer struct {
	cleanedDir string
	suffix     string
	extension  string
	logger     logger.Interface
}

// NewTransformer creates a transformer writing files named
// <identifier><suffix><extension> under cleanedDir.
func NewTransformer(cleanedDir, suffix, extension string, log logger.Interface) *Transformer {
	return &Transformer{
		cleanedDir: cleanedDir,
		suffix:     suffix,
		extension:  extension,
		logger:     log,
	}
}

// NormalizeFile reads the raw CSV at rawPath, normalizes its header row,
// and writes a cleaned copy. Data rows keep their cell values and order;
// only header cells change. The input file is not modified.
func (t *Transformer) NormalizeFile(rawPath, identifier string) (Result, error) {
	in, err := os.Open(rawPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", rawPath, err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	// Rows may have a different field count than the header; pass them
	// through rather than rejecting the file.
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("%w: %s has no header row", ErrMalformedTable, rawPath)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read header of %s: %w", rawPath, err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read rows of %s: %w", rawPath, err)
	}

	cleaned := NormalizeHeaders(headers)

	outPath := filepath.Join(t.cleanedDir, identifier+t.suffix+t.extension)
	out, err := os.Create(outPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create %s: %w", outPath, err)
	}

	writer := csv.NewWriter(out)
	if writeErr := writer.Write(cleaned); writeErr != nil {
		out.Close()
		os.Remove(outPath)
		return Result{}, fmt.Errorf("failed to write header of %s: %w", outPath, writeErr)
	}
	if writeErr := writer.WriteAll(rows); writeErr != nil {
		out.Close()
		os.Remove(outPath)
		return Result{}, fmt.Errorf("failed to write rows of %s: %w", outPath, writeErr)
	}

	writer.Flush()
	if flushErr := writer.Error(); flushErr != nil {
		out.Close()
		os.Remove(outPath)
		return Result{}, fmt.Errorf("failed to flush %s: %w", outPath, flushErr)
	}

	if closeErr := out.Close(); closeErr != nil {
		os.Remove(outPath)
		return Result{}, fmt.Errorf("failed to close %s: %w", outPath, closeErr)
	}

	t.logger.Debug("Normalized table",
		"dataset", identifier,
		"columns", len(headers),
		"rows", len(rows),
		"path", outPath,
	)

	return Result{
		Identifier:      identifier,
		Path:            outPath,
		OriginalHeaders: headers,
		CleanedHeaders:  cleaned,
	}, nil
}

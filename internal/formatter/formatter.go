// package formatter provides functions to export the saved-album collection to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/waxlog/internal/models"
)

func listenedString(listened bool) string {
	if listened {
		return "listened"
	}
	return "unlistened"
}

// ExportToCSV converts a collection to CSV format with columns: Record ID, Album, Artist, Album ID, Status
func ExportToCSV(records []models.SavedAlbum) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Record ID", "Album", "Artist", "Album ID", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.RecordID,
			rec.AlbumName,
			rec.ArtistName,
			rec.AlbumID,
			listenedString(rec.Listened),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a collection to Markdown format
func ExportToMarkdown(records []models.SavedAlbum, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Albums"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Albums**: %d\n\n", len(records)))

	listened := 0
	for _, rec := range records {
		if rec.Listened {
			listened++
		}
	}
	buf.WriteString(fmt.Sprintf("**Listened**: %d\n\n", listened))

	buf.WriteString("## Collection\n\n")
	for i, rec := range records {
		marker := " "
		if rec.Listened {
			marker = "x"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s - %s\n", i+1, marker, rec.ArtistName, rec.AlbumName))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a collection to plain text format
func ExportToText(records []models.SavedAlbum) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Albums: %d\n\n", len(records)))
	for i, rec := range records {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, rec.ArtistName, rec.AlbumName, listenedString(rec.Listened)))
	}

	return buf.Bytes(), nil
}

// Export renders records in the named format: csv, markdown, or txt.
func Export(records []models.SavedAlbum, format, title string) ([]byte, error) {
	switch format {
	case "csv":
		return ExportToCSV(records)
	case "markdown", "md":
		return ExportToMarkdown(records, title)
	case "txt", "text":
		return ExportToText(records)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteExport renders records and writes them to path, creating parent
// directories as needed. The format is inferred from the file extension when
// format is empty.
func WriteExport(records []models.SavedAlbum, path, format, title string) error {
	if format == "" {
		switch filepath.Ext(path) {
		case ".csv":
			format = "csv"
		case ".md":
			format = "markdown"
		default:
			format = "txt"
		}
	}

	data, err := Export(records, format, title)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}

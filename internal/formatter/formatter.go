// package formatter provides functions to export the playlist collection to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
)

// ExportToCSV converts a Collection to CSV format with columns: ID, Title, Owner, Tracks, Enabled, Priority, URL
func ExportToCSV(collection *models.Collection) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Owner", "Tracks", "Enabled", "Priority", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, pl := range collection.Playlists {
		record := []string{
			pl.ID,
			pl.Title,
			pl.Owner,
			strconv.Itoa(pl.TotalTracks),
			strconv.FormatBool(pl.Enabled),
			strconv.Itoa(pl.Priority),
			pl.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Collection to Markdown format
func ExportToMarkdown(collection *models.Collection) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Playlists of %s\n\n", collection.Username))
	buf.WriteString(fmt.Sprintf("**Playlists**: %d\n\n", len(collection.Playlists)))

	buf.WriteString("## Collection\n\n")
	for i, pl := range collection.Playlists {
		state := "enabled"
		if !pl.Enabled {
			state = "disabled"
		}
		ownerPart := ""
		if pl.Owner != "" {
			ownerPart = fmt.Sprintf(" by %s", pl.Owner)
		}
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)%s (%d tracks, %s)\n", i+1, pl.Title, pl.URL, ownerPart, pl.TotalTracks, state))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Collection to plain text format
func ExportToText(collection *models.Collection) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlists of %s\n", collection.Username))
	buf.WriteString(fmt.Sprintf("Playlists: %d\n\n", len(collection.Playlists)))

	for i, pl := range collection.Playlists {
		marker := " "
		if pl.Enabled {
			marker = "*"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s (%d tracks)\n", i+1, marker, pl.Title, pl.TotalTracks))
	}

	return buf.Bytes(), nil
}

// Export renders the collection in the named format.
func Export(collection *models.Collection, format string) ([]byte, error) {
	switch format {
	case "csv":
		return ExportToCSV(collection)
	case "markdown", "md":
		return ExportToMarkdown(collection)
	case "text", "txt":
		return ExportToText(collection)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders the collection and writes it to path.
func WriteExport(collection *models.Collection, format, path string) error {
	data, err := Export(collection, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

package handler

import (
	"fmt"
	"strconv"

	"github.com/DukeRupert/pagedlist/internal/domain"
	"github.com/DukeRupert/pagedlist/source/s3source"
)

// ItemColumns is the table layout for catalogue items.
func ItemColumns() []Column[domain.Item] {
	return []Column[domain.Item]{
		{Header: "#", Class: "num", Value: func(i domain.Item) string { return strconv.Itoa(i.Position) }},
		{Header: "Name", Value: func(i domain.Item) string { return i.Name }},
		{Header: "Category", Value: func(i domain.Item) string { return i.Category }},
		{Header: "Price", Class: "num", Value: domain.Item.Price},
		{Header: "Added", Value: func(i domain.Item) string { return i.CreatedAt.Format("2006-01-02") }},
	}
}

// ObjectColumns is the table layout for bucket listings.
func ObjectColumns() []Column[s3source.Object] {
	return []Column[s3source.Object]{
		{Header: "Key", Value: func(o s3source.Object) string { return o.Key }},
		{Header: "Size", Class: "num", Value: func(o s3source.Object) string { return formatBytes(o.Size) }},
		{Header: "Last modified", Value: func(o s3source.Object) string {
			if o.LastModified.IsZero() {
				return ""
			}
			return o.LastModified.UTC().Format("2006-01-02 15:04")
		}},
	}
}

// formatBytes renders a size with a binary unit, e.g. "1.5 KiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

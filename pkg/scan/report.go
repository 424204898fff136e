package scan

import (
	"io"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DefaultPathWidth is the widest a largest-file path is rendered before
// truncation.
const DefaultPathWidth = 48

// Report renders the statistics as a plain table followed by a TOTAL footer.
// Paths longer than pathWidth are truncated from the left so the file name
// stays visible.
func Report(w io.Writer, root string, stats []Stats, pathWidth int) {
	if pathWidth <= 0 {
		pathWidth = DefaultPathWidth
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"EXTENSION", "FILES", "TOTAL SIZE", "LANGUAGE", "KIND", "LARGEST FILE", "SIZE"})

	var totalFiles int

	var totalSize int64

	for _, st := range stats {
		kind := "text"
		if st.Binary {
			kind = "binary"
		}

		lang := st.Language
		if lang == "" {
			lang = "-"
		}

		tbl.AppendRow(table.Row{
			st.Ext,
			strconv.Itoa(st.Count),
			humanize.IBytes(uint64(st.TotalSize)),
			lang,
			kind,
			truncatePath(relativeTo(root, st.LargestPath), pathWidth),
			humanize.IBytes(uint64(st.LargestSize)),
		})

		totalFiles += st.Count
		totalSize += st.TotalSize
	}

	tbl.AppendFooter(table.Row{"TOTAL", strconv.Itoa(totalFiles), humanize.IBytes(uint64(totalSize)), "", "", "", ""})
	tbl.Render()
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}

	return rel
}

// truncatePath keeps the tail of the path, which carries the file name.
func truncatePath(path string, width int) string {
	if len(path) <= width {
		return path
	}

	return "..." + path[len(path)-width+3:]
}

// Package bundle writes concatenated source bundles: every member file's
// contents under a header naming its path, in one text artifact ready to
// paste into a chat assistant.
package bundle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// DefaultHeaderWidth is the width of the separator rule above and below
// each file header.
const DefaultHeaderWidth = 80

// CompressedExt is appended to the bundle name when LZ4 compression is on.
const CompressedExt = ".lz4"

// Writer concatenates files into a single bundle.
type Writer struct {
	root        string
	headerWidth int
}

// NewWriter creates a bundle writer. Member paths are rendered relative to
// root in the per-file headers.
func NewWriter(root string, headerWidth int) *Writer {
	if headerWidth <= 0 {
		headerWidth = DefaultHeaderWidth
	}

	return &Writer{root: root, headerWidth: headerWidth}
}

// OutputName derives the bundle file name from the project root:
// "<basename>_concatenated.txt".
func OutputName(root string) string {
	return filepath.Base(filepath.Clean(root)) + "_concatenated.txt"
}

// Write streams the bundle for the given files to w. The name labels the
// bundle in its preamble. A member file that cannot be read degrades to an
// inline error marker; only writing the bundle itself can fail.
func (bw *Writer) Write(w io.Writer, name string, files []string) error {
	rule := strings.Repeat("=", bw.headerWidth)

	_, err := fmt.Fprintf(w, "--- START OF FILE %s ---\n\n", name)
	if err != nil {
		return fmt.Errorf("write preamble: %w", err)
	}

	for _, file := range files {
		rel := bw.relative(file)

		_, err = fmt.Fprintf(w, "%s\ncat %s\n%s\n", rule, rel, rule)
		if err != nil {
			return fmt.Errorf("write header for %s: %w", rel, err)
		}

		content, readErr := os.ReadFile(file)
		if readErr != nil {
			_, err = fmt.Fprintf(w, "!!! ERROR: Could not read file %s: %v !!!\n\n", rel, readErr)
		} else {
			_, err = fmt.Fprintf(w, "%s\n\n", content)
		}

		if err != nil {
			return fmt.Errorf("write contents of %s: %w", rel, err)
		}
	}

	return nil
}

// WriteFile writes the bundle to path. With compress set, the output is an
// LZ4 frame and the path gains the ".lz4" suffix. Returns the path written.
func (bw *Writer) WriteFile(path string, files []string, compress bool) (string, error) {
	if compress {
		path += CompressedExt
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create bundle %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), CompressedExt)

	writeErr := bw.writeTo(out, name, files, compress)

	closeErr := out.Close()
	if writeErr != nil {
		return "", writeErr
	}

	if closeErr != nil {
		return "", fmt.Errorf("close bundle %s: %w", path, closeErr)
	}

	return path, nil
}

func (bw *Writer) writeTo(out io.Writer, name string, files []string, compress bool) error {
	if !compress {
		return bw.Write(out, name, files)
	}

	zw := lz4.NewWriter(out)

	writeErr := bw.Write(zw, name, files)

	closeErr := zw.Close()
	if writeErr != nil {
		return writeErr
	}

	if closeErr != nil {
		return fmt.Errorf("close compressed bundle: %w", closeErr)
	}

	return nil
}

func (bw *Writer) relative(path string) string {
	rel, err := filepath.Rel(bw.root, path)
	if err != nil {
		return path
	}

	return rel
}

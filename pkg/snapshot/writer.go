package snapshot

import (
	"fmt"
	"io"
	"strings"
)

const sectionRule = "===================="

// Write renders the snapshot bundle.
func (s *Snapshot) Write(w io.Writer) error {
	var b strings.Builder

	b.WriteString("=== GIT HISTORY ===\n")
	b.WriteString(s.rangeLabel() + "\n\n")
	b.WriteString(strings.Join(s.History, "\n"))
	b.WriteString("\n\n" + sectionRule + "\n\n")

	if len(s.Files) == 0 {
		b.WriteString("No files were changed in the specified commit(s).\n")
	} else {
		b.WriteString(s.filesHeader() + "\n")

		for _, file := range s.Files {
			writeFile(&b, file)
		}
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}

func (s *Snapshot) rangeLabel() string {
	if s.Single {
		return s.ThisShort
	}

	return s.BaseShort + ".." + s.ThisShort
}

func (s *Snapshot) filesHeader() string {
	if s.Single {
		return fmt.Sprintf("=== CHANGED FILES AND THEIR CONTENTS (in commit %s) ===", s.ThisShort)
	}

	return fmt.Sprintf("=== CHANGED FILES AND THEIR CONTENTS (between commits %s and %s) ===", s.BaseShort, s.ThisShort)
}

func writeFile(b *strings.Builder, file FileChange) {
	label := fmt.Sprintf(" FILE: %s%s ", file.Path, fileNote(file))

	fmt.Fprintf(b, "\n===%s===\n", label)

	switch {
	case file.Deleted:
	case file.Binary:
		fmt.Fprintf(b, "[binary file, %d bytes]\n", len(file.Content))
	default:
		b.Write(file.Content)

		if len(file.Content) > 0 && file.Content[len(file.Content)-1] != '\n' {
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(b, "===%s===\n", strings.Repeat("=", len(label)))
}

func fileNote(file FileChange) string {
	switch {
	case file.Deleted:
		return " (deleted)"
	case file.Binary:
		return " (binary)"
	default:
		return fmt.Sprintf(" (+%d -%d)", file.Added, file.Removed)
	}
}

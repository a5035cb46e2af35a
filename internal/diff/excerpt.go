// Package diff turns pull request diffs into bounded excerpts suitable for a prompt.
package diff

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/sevigo/merge-warden/internal/core"
)

// Excerpt is a size-bounded rendering of a change set.
type Excerpt struct {
	Text      string
	Files     int
	Binary    []string
	Truncated bool
}

type fileSection struct {
	name   string
	body   string
	binary bool
}

// Build renders an excerpt of at most maxBytes bytes. The raw unified diff is
// preferred; when it is empty or unparsable the per-file patches are used.
func Build(raw string, files []core.FileChange, maxBytes int) Excerpt {
	sections, err := sectionsFromRaw(raw)
	if err != nil || len(sections) == 0 {
		sections = sectionsFromFiles(files)
	}
	return render(sections, maxBytes)
}

func sectionsFromRaw(raw string) ([]fileSection, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	sections := make([]fileSection, 0, len(parsed))
	for _, f := range parsed {
		name := f.NewName
		if f.IsDelete || name == "" {
			name = f.OldName
		}

		if f.IsBinary {
			sections = append(sections, fileSection{name: name, body: core.BinaryPatch, binary: true})
			continue
		}

		var sb strings.Builder
		for _, frag := range f.TextFragments {
			sb.WriteString(hunkHeader(frag))
			for _, line := range frag.Lines {
				sb.WriteString(linePrefix(line.Op))
				sb.WriteString(line.Line)
				if !strings.HasSuffix(line.Line, "\n") {
					sb.WriteString("\n")
				}
			}
		}
		sections = append(sections, fileSection{name: name, body: sb.String()})
	}
	return sections, nil
}

func sectionsFromFiles(files []core.FileChange) []fileSection {
	sections := make([]fileSection, 0, len(files))
	for _, f := range files {
		if f.Binary || f.Patch == "" {
			sections = append(sections, fileSection{name: f.Path, body: core.BinaryPatch, binary: true})
			continue
		}
		body := f.Patch
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		sections = append(sections, fileSection{name: f.Path, body: body})
	}
	return sections
}

// render writes whole file sections while they fit. Room for the truncation
// note is kept free so the excerpt never exceeds maxBytes.
func render(sections []fileSection, maxBytes int) Excerpt {
	var sb strings.Builder
	ex := Excerpt{}
	reserve := 0
	if maxBytes > 0 {
		reserve = len(truncationNote(len(sections)))
	}

	for i, s := range sections {
		chunk := fmt.Sprintf("File: %s\n%s\n", s.name, strings.TrimRight(s.body, "\n"))
		limit := maxBytes
		if i < len(sections)-1 {
			limit -= reserve
		}
		if maxBytes > 0 && sb.Len()+len(chunk) > limit {
			skipped := len(sections) - i
			if ex.Files == 0 {
				// The first file alone exceeds the limit; keep its head.
				skipped--
				room := maxBytes
				if skipped > 0 {
					room -= len(truncationNote(skipped))
				}
				sb.WriteString(Clip(chunk, room))
				ex.Files++
			}
			ex.Truncated = true
			if note := truncationNote(skipped); skipped > 0 && sb.Len()+len(note) <= maxBytes {
				sb.WriteString(note)
			}
			break
		}

		if s.binary {
			ex.Binary = append(ex.Binary, s.name)
		}
		sb.WriteString(chunk)
		ex.Files++
	}

	ex.Text = sb.String()
	return ex
}

func truncationNote(skipped int) string {
	return fmt.Sprintf("\n... (%d more files truncated)\n", skipped)
}

// Clip shortens s to at most n bytes without splitting a UTF-8 sequence.
func Clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func hunkHeader(frag *gitdiff.TextFragment) string {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines)
	if frag.Comment != "" {
		header += " " + frag.Comment
	}
	return header + "\n"
}

func linePrefix(op gitdiff.LineOp) string {
	switch op {
	case gitdiff.OpAdd:
		return "+"
	case gitdiff.OpDelete:
		return "-"
	default:
		return " "
	}
}

package chunk

import "strings"

// sectionSplitter splits markdown text on ATX headings of depth <= level.
// Heading detection is line-based and fence-aware: lines inside fenced
// code regions (``` or ~~~) never start a new chunk, since documentation
// samples routinely contain markdown examples inside fences.
type sectionSplitter struct {
	level int
}

func (s *sectionSplitter) Split(doc *Document) ([]Chunk, error) {
	lines := strings.Split(doc.Text, "\n")

	type section struct {
		heading string
		lines   []string
	}

	var sections []section
	current := section{}
	inFence := false
	fenceMarker := ""

	flush := func() {
		if len(current.lines) > 0 || current.heading != "" {
			sections = append(sections, current)
		}
		current = section{}
	}

	for _, line := range lines {
		if marker := fenceDelimiter(line); marker != "" {
			if !inFence {
				inFence = true
				fenceMarker = marker
			} else if strings.HasPrefix(marker, fenceMarker) {
				inFence = false
				fenceMarker = ""
			}
			current.lines = append(current.lines, line)
			continue
		}

		if !inFence {
			if heading, ok := headingAtOrAbove(line, s.level); ok {
				flush()
				current.heading = heading
				current.lines = append(current.lines, line)
				continue
			}
		}
		current.lines = append(current.lines, line)
	}
	flush()

	// Drop a leading section that holds no text (e.g. a document starting
	// directly with a heading produces no implicit preface chunk).
	if len(sections) > 0 && sections[0].heading == "" {
		if strings.TrimSpace(strings.Join(sections[0].lines, "\n")) == "" {
			sections = sections[1:]
		}
	}

	// No qualifying headings: degrade to the none strategy.
	if len(sections) == 0 || (len(sections) == 1 && sections[0].heading == "") {
		return noneSplitter{}.Split(doc)
	}

	chunks := make([]Chunk, 0, len(sections))
	for _, sec := range sections {
		text := strings.TrimRight(strings.Join(sec.lines, "\n"), "\n")
		chunks = append(chunks, Chunk{
			ID:         chunkID(doc.ID, len(chunks), text),
			DocumentID: doc.ID,
			Ordinal:    len(chunks),
			Text:       text,
			Heading:    sec.heading,
		})
	}
	return chunks, nil
}

// fenceDelimiter reports the fence marker if the line opens or closes a
// fenced code block. Markdown allows up to three leading spaces.
func fenceDelimiter(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		return "```"
	}
	if strings.HasPrefix(trimmed, "~~~") {
		return "~~~"
	}
	return ""
}

// headingAtOrAbove parses an ATX heading line and reports its label if
// its depth is at or above the split level (fewer or equal hash marks).
func headingAtOrAbove(line string, level int) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	depth := 0
	for depth < len(line) && line[depth] == '#' {
		depth++
	}
	if depth > 6 || depth > level {
		return "", false
	}
	if depth >= len(line) || line[depth] != ' ' {
		return "", false
	}
	label := strings.TrimSpace(line[depth+1:])
	if label == "" {
		return "", false
	}
	return label, true
}

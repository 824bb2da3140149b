package ingest

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatter holds the YAML fields documentation sites commonly put
// at the top of a page.
type frontmatter struct {
	Title string `yaml:"title"`
}

// stripFrontmatter removes a leading YAML frontmatter block and
// returns the body plus any title it declared. Malformed frontmatter
// is left in place so no content is lost.
func stripFrontmatter(text string) (body, title string) {
	rest, ok := strings.CutPrefix(text, "---\n")
	if !ok {
		rest, ok = strings.CutPrefix(text, "---\r\n")
		if !ok {
			return text, ""
		}
	}

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return text, ""
	}
	block := rest[:end]

	after := rest[end+len("\n---"):]
	after = strings.TrimPrefix(after, "\r")
	newline := strings.IndexByte(after, '\n')
	if newline >= 0 {
		// Anything between the closing delimiter and the line end means
		// this was not a frontmatter fence.
		if strings.TrimSpace(after[:newline]) != "" {
			return text, ""
		}
		after = after[newline+1:]
	} else if strings.TrimSpace(after) != "" {
		return text, ""
	} else {
		after = ""
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return text, ""
	}
	return after, fm.Title
}

// titleFromBody falls back to the first ATX heading when frontmatter
// declares no title.
func titleFromBody(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

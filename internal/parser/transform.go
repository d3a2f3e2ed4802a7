package parser

import (
	"strings"
)

// Summary is the application-level view of a parsed file, used for
// status reporting.
type Summary struct {
	Name      string
	Sections  int
	Steps     int
	Examples  int
	Tags      []string // distinct tag names without the leading @
	StepLines []int    // 1-based line numbers of every step, in document order
	Errors    []ParseError
}

// Transform summarizes a Document.
func Transform(doc *Document, filename string, errors []ParseError) *Summary {
	s := &Summary{
		Errors: errors,
	}

	if doc == nil || doc.Feature == nil {
		s.Name = filenameWithoutExt(filename)
		return s
	}

	f := doc.Feature
	s.Name = f.Header.Name

	seen := make(map[string]bool)
	addTags := func(tags []Tag) {
		for _, tag := range tags {
			name := strings.TrimPrefix(tag.Name, "@")
			if !seen[name] {
				seen[name] = true
				s.Tags = append(s.Tags, name)
			}
		}
	}
	addSection := func(sec *Section) {
		s.Sections++
		addTags(sec.Tags)
		for _, step := range sec.Steps {
			s.Steps++
			s.StepLines = append(s.StepLines, step.Line)
		}
		for _, ex := range sec.Examples {
			s.Examples++
			addTags(ex.Tags)
		}
	}

	addTags(f.Header.Tags)
	if f.Background != nil {
		addSection(f.Background)
	}
	for i := range f.Sections {
		addSection(&f.Sections[i])
	}

	return s
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}

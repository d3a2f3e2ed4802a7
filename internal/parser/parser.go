package parser

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`@[^@\s]+`)

var stepKeywords = []string{"Given ", "When ", "Then ", "And ", "But ", "* "}

type parseState struct {
	lines  []string
	i      int
	errors []ParseError

	feature  *Feature
	section  *Section
	step     *Step
	examples *Examples

	tags     []Tag
	comments []Comment
}

// Parse parses a .ft file and returns a Document AST and any parse errors.
func Parse(filename string, content []byte) (*Document, []ParseError) {
	p := &parseState{
		lines:   splitLines(content),
		feature: &Feature{},
	}
	p.header(filename)
	for p.i < len(p.lines) {
		p.body()
	}
	p.closeSection()
	return &Document{Feature: p.feature}, p.errors
}

func splitLines(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func (p *parseState) header(filename string) {
	// Skip leading blanks and comments, collect feature-level tags
	for p.i < len(p.lines) {
		trimmed := strings.TrimSpace(p.lines[p.i])
		if trimmed == "" || isComment(trimmed) {
			p.i++
			continue
		}
		if isTagLine(trimmed) {
			p.tags = append(p.tags, parseTags(trimmed)...)
			p.i++
			continue
		}
		break
	}

	h := &p.feature.Header
	h.Tags = p.takeTags()

	if p.i < len(p.lines) && strings.HasPrefix(strings.TrimSpace(p.lines[p.i]), "Feature:") {
		trimmed := strings.TrimSpace(p.lines[p.i])
		h.Keyword = "Feature"
		h.Name = strings.TrimSpace(strings.TrimPrefix(trimmed, "Feature:"))
		h.Line = p.i + 1
		p.i++
		h.Description = p.description()
		return
	}

	// No Feature: line — use filename without extension
	h.Name = filenameWithoutExt(filename)
}

func (p *parseState) body() {
	trimmed := strings.TrimSpace(p.lines[p.i])
	line := p.i + 1

	switch {
	case trimmed == "":
		p.i++
	case isComment(trimmed):
		p.comments = append(p.comments, Comment{Text: trimmed, Line: line})
		p.i++
	case isTagLine(trimmed):
		p.tags = append(p.tags, parseTags(trimmed)...)
		p.i++
	case strings.HasPrefix(trimmed, "Background:"):
		p.startSection(KindBackground, trimmed, "Background:")
	case strings.HasPrefix(trimmed, "Scenario Outline:"):
		p.startSection(KindScenarioOutline, trimmed, "Scenario Outline:")
	case strings.HasPrefix(trimmed, "Scenario Template:"):
		p.startSection(KindScenarioOutline, trimmed, "Scenario Template:")
	case strings.HasPrefix(trimmed, "Scenario:"):
		p.startSection(KindScenario, trimmed, "Scenario:")
	case strings.HasPrefix(trimmed, "Example:"):
		p.startSection(KindScenario, trimmed, "Example:")
	case strings.HasPrefix(trimmed, "Examples:"):
		p.startExamples(trimmed, "Examples:")
	case strings.HasPrefix(trimmed, "Scenarios:"):
		p.startExamples(trimmed, "Scenarios:")
	case strings.HasPrefix(trimmed, "Rule:"):
		p.fail(line, "Rule is not supported")
		p.i++
		p.i = consumeBlock(p.lines, p.i)
	case strings.HasPrefix(trimmed, "Feature:"):
		p.fail(line, "only one Feature is allowed per file")
		p.i++
	case isStep(trimmed):
		p.addStep(trimmed, line)
	case isTableRow(trimmed):
		p.addRow(trimmed, line)
	case isDocStringDelimiter(trimmed):
		p.addDocString()
	default:
		p.fail(line, "unexpected line: "+trimmed)
		p.i++
	}
}

func (p *parseState) fail(line int, message string) {
	p.errors = append(p.errors, ParseError{Line: line, Message: message})
}

func (p *parseState) startSection(kind SectionKind, trimmed, keyword string) {
	p.closeSection()

	s := &Section{
		Kind:    kind,
		Keyword: strings.TrimSuffix(keyword, ":"),
		Name:    strings.TrimSpace(strings.TrimPrefix(trimmed, keyword)),
		Line:    p.i + 1,
	}
	if kind == KindBackground {
		p.tags = nil // Background doesn't get tags
	} else {
		s.Tags = p.takeTags()
	}
	p.comments = nil
	p.i++
	s.Description = p.description()

	p.section = s
	p.step = nil
	p.examples = nil
}

func (p *parseState) closeSection() {
	s := p.section
	if s == nil {
		return
	}
	p.section, p.step, p.examples = nil, nil, nil

	if s.Kind == KindBackground {
		if p.feature.Background != nil {
			p.fail(s.Line, "only one Background is allowed per Feature")
			return
		}
		p.feature.Background = s
		return
	}
	p.feature.Sections = append(p.feature.Sections, *s)
}

func (p *parseState) startExamples(trimmed, keyword string) {
	line := p.i + 1
	if p.section == nil || p.section.Kind != KindScenarioOutline {
		p.fail(line, "Examples outside of a Scenario Outline")
		p.tags, p.comments = nil, nil
		p.i++
		p.i = consumeBlock(p.lines, p.i)
		return
	}

	ex := Examples{
		Comments: p.takeComments(),
		Tags:     p.takeTags(),
		Keyword:  strings.TrimSuffix(keyword, ":"),
		Name:     strings.TrimSpace(strings.TrimPrefix(trimmed, keyword)),
		Line:     line,
	}
	p.i++
	ex.Description = p.description()

	p.section.Examples = append(p.section.Examples, ex)
	p.examples = &p.section.Examples[len(p.section.Examples)-1]
	p.step = nil
}

func (p *parseState) addStep(trimmed string, line int) {
	p.i++
	if p.section == nil {
		p.fail(line, "step outside of a Scenario or Background")
		return
	}
	if p.examples != nil {
		p.fail(line, "step after Examples")
		return
	}

	keyword, text := splitStep(trimmed)
	p.section.Steps = append(p.section.Steps, Step{
		Comments: p.takeComments(),
		Keyword:  keyword,
		Text:     text,
		Line:     line,
	})
	p.step = &p.section.Steps[len(p.section.Steps)-1]
}

func (p *parseState) addRow(trimmed string, line int) {
	p.i++

	var table *DataTable
	switch {
	case p.step != nil:
		if p.step.Argument == nil {
			p.step.Argument = &StepArgument{}
		}
		if p.step.Argument.DocString != nil {
			p.fail(line, "step already has a doc string")
			return
		}
		if p.step.Argument.DataTable == nil {
			p.step.Argument.DataTable = &DataTable{}
		}
		table = p.step.Argument.DataTable
	case p.examples != nil:
		if p.examples.Table == nil {
			p.examples.Table = &DataTable{}
		}
		table = p.examples.Table
	default:
		p.fail(line, "table row outside of a step or Examples")
		return
	}

	cells := parseRow(trimmed)
	if len(table.Rows) > 0 && len(cells) != len(table.Rows[0]) {
		p.fail(line, "inconsistent cell count")
		return
	}
	table.Rows = append(table.Rows, cells)
}

func (p *parseState) addDocString() {
	opener := p.lines[p.i]
	line := p.i + 1

	if p.step == nil || p.step.Argument != nil {
		if p.step == nil {
			p.fail(line, "doc string outside of a step")
		} else {
			p.fail(line, "step already has an argument")
		}
		p.i = skipDocString(p.lines, p.i)
		return
	}

	indent := len(opener) - len(strings.TrimLeft(opener, " \t"))
	trimmed := strings.TrimSpace(opener)
	delimiter := `"""`
	if strings.HasPrefix(trimmed, "```") {
		delimiter = "```"
	}
	mediaType := strings.TrimSpace(strings.TrimPrefix(trimmed, delimiter))

	var content []string
	for p.i++; p.i < len(p.lines); p.i++ {
		raw := p.lines[p.i]
		if strings.TrimSpace(raw) == delimiter {
			p.i++
			p.step.Argument = &StepArgument{DocString: &DocString{
				MediaType: mediaType,
				Content:   strings.Join(content, "\n"),
			}}
			return
		}
		raw = trimIndent(raw, indent)
		if delimiter == `"""` {
			raw = strings.ReplaceAll(raw, `\"\"\"`, `"""`)
		}
		content = append(content, raw)
	}
	p.fail(line, "unterminated doc string")
}

// description collects free-text lines up to the next structural line.
// Leading and trailing blank lines are dropped.
func (p *parseState) description() string {
	var desc []string
	for p.i < len(p.lines) {
		trimmed := strings.TrimSpace(p.lines[p.i])
		if isKeyword(trimmed) || isTagLine(trimmed) || isComment(trimmed) ||
			isStep(trimmed) || isTableRow(trimmed) || isDocStringDelimiter(trimmed) {
			break
		}
		desc = append(desc, trimmed)
		p.i++
	}
	for len(desc) > 0 && desc[0] == "" {
		desc = desc[1:]
	}
	for len(desc) > 0 && desc[len(desc)-1] == "" {
		desc = desc[:len(desc)-1]
	}
	return strings.Join(desc, "\n")
}

func (p *parseState) takeTags() []Tag {
	tags := p.tags
	p.tags = nil
	return tags
}

func (p *parseState) takeComments() []Comment {
	comments := p.comments
	p.comments = nil
	return comments
}

func parseTags(line string) []Tag {
	matches := tagPattern.FindAllString(line, -1)
	var tags []Tag
	for _, m := range matches {
		tags = append(tags, Tag{Name: m})
	}
	return tags
}

// parseRow splits a |-delimited row. \| \\ and \n are the cell escapes;
// anything after the last pipe is ignored.
func parseRow(trimmed string) []string {
	var cells []string
	var cell strings.Builder
	escaped := false
	for _, r := range strings.TrimPrefix(trimmed, "|") {
		switch {
		case escaped:
			switch r {
			case 'n':
				cell.WriteRune('\n')
			case '|', '\\':
				cell.WriteRune(r)
			default:
				cell.WriteRune('\\')
				cell.WriteRune(r)
			}
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteRune(r)
		}
	}
	return cells
}

func splitStep(trimmed string) (keyword, text string) {
	for _, kw := range stepKeywords {
		if strings.HasPrefix(trimmed, kw) {
			return strings.TrimSpace(kw), strings.TrimSpace(trimmed[len(kw):])
		}
	}
	return "", trimmed
}

func trimIndent(line string, indent int) string {
	i := 0
	for i < indent && i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#")
}

func isTagLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "@")
}

func isTableRow(trimmed string) bool {
	return strings.HasPrefix(trimmed, "|")
}

func isStep(trimmed string) bool {
	for _, kw := range stepKeywords {
		if strings.HasPrefix(trimmed, kw) {
			return true
		}
	}
	return false
}

func isKeyword(trimmed string) bool {
	return strings.HasPrefix(trimmed, "Feature:") ||
		strings.HasPrefix(trimmed, "Background:") ||
		strings.HasPrefix(trimmed, "Scenario:") ||
		strings.HasPrefix(trimmed, "Example:") ||
		strings.HasPrefix(trimmed, "Scenario Outline:") ||
		strings.HasPrefix(trimmed, "Scenario Template:") ||
		strings.HasPrefix(trimmed, "Rule:") ||
		strings.HasPrefix(trimmed, "Examples:") ||
		strings.HasPrefix(trimmed, "Scenarios:")
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```")
}

// skipDocString advances past a doc string block. i points at the opening delimiter.
// Returns the index of the line after the closing delimiter.
func skipDocString(lines []string, i int) int {
	opener := strings.TrimSpace(lines[i])
	delimiter := `"""`
	if strings.HasPrefix(opener, "```") {
		delimiter = "```"
	}
	i++ // move past opening delimiter
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == delimiter {
			return i + 1 // past the closing delimiter
		}
		i++
	}
	return i // EOF without closing delimiter
}

// consumeBlock advances past content lines, skipping over doc strings,
// until the next keyword, tag line, or EOF.
func consumeBlock(lines []string, i int) int {
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if isDocStringDelimiter(t) {
			i = skipDocString(lines, i)
			continue
		}
		if isKeyword(t) || isTagLine(t) {
			break
		}
		i++
	}
	return i
}

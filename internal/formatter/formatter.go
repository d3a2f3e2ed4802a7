// Package formatter renders a Gherkin statement stream as wiki markup.
//
// A Formatter reacts to callbacks in document order. Section headers and
// their steps are buffered and written together once the next section,
// examples block or end of document proves the section complete.
package formatter

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/chriserin/ftwiki/internal/logging"
	"github.com/chriserin/ftwiki/internal/markup"
	"github.com/chriserin/ftwiki/internal/parser"
)

const undefinedSection = "Undefined section"

// Options controls tag rendering.
type Options struct {
	// TagRendering enables the tag annotation line under headings.
	TagRendering bool

	// InformationSign prefixes tag annotation lines. Empty means
	// markup.InformationSign.
	InformationSign string

	// URI names the document in syntax errors.
	URI string

	// Logger receives debug output. Nil means logging.Default().
	Logger *log.Logger
}

// DefaultOptions enables tag rendering with the built-in sign.
func DefaultOptions() Options {
	return Options{TagRendering: true}
}

// Option customizes a Formatter at construction.
type Option func(*Formatter)

// WithRegistry replaces the default wiki registry.
func WithRegistry(r *markup.Registry) Option {
	return func(f *Formatter) {
		f.registry = r
	}
}

type rules struct {
	section1   markup.Rule
	section2   markup.Rule
	italics    markup.Rule
	bold       markup.Rule
	colorRed   markup.Rule
	tableRow   markup.Rule
	headerCell markup.Rule
	dataCell   markup.Rule
	failed     markup.Rule
}

type pendingStep struct {
	step   parser.Step
	result *Result
}

// Formatter is one render pass. It is not safe for concurrent use; run
// separate Formatters for separate documents.
type Formatter struct {
	out      *lineWriter
	opts     Options
	log      *log.Logger
	registry *markup.Registry
	rules    rules

	section *parser.Section
	steps   []pendingStep

	err    error
	closed bool
}

// New returns a Formatter writing to w. Every rule the formatter needs is
// resolved here, so a registry missing one fails before any output.
func New(w io.Writer, opts Options, options ...Option) (*Formatter, error) {
	f := &Formatter{
		out:      newLineWriter(w),
		opts:     opts,
		log:      opts.Logger,
		registry: markup.Default(),
	}
	for _, o := range options {
		o(f)
	}
	if f.log == nil {
		f.log = logging.Default()
	}
	if f.opts.InformationSign == "" {
		f.opts.InformationSign = markup.InformationSign
	}

	slots := []struct {
		role markup.Role
		rule *markup.Rule
	}{
		{markup.Section1, &f.rules.section1},
		{markup.Section2, &f.rules.section2},
		{markup.Italics, &f.rules.italics},
		{markup.Bold, &f.rules.bold},
		{markup.ColorRed, &f.rules.colorRed},
		{markup.TableRow, &f.rules.tableRow},
		{markup.TableHeaderCell, &f.rules.headerCell},
		{markup.TableDataCell, &f.rules.dataCell},
		{markup.Failed, &f.rules.failed},
	}
	for _, s := range slots {
		rule, err := f.registry.Lookup(s.role)
		if err != nil {
			return nil, err
		}
		*s.rule = rule
	}
	return f, nil
}

func (f *Formatter) ready() error {
	if f.closed {
		return ErrClosed
	}
	if f.err != nil {
		return f.err
	}
	return f.out.err
}

// Feature writes the feature heading, its tags and its description with
// line breaks collapsed to spaces.
func (f *Formatter) Feature(h parser.FeatureHeader) error {
	if err := f.ready(); err != nil {
		return err
	}
	name := h.Name
	if name == "" {
		name = f.undefined()
	}
	f.out.println(f.rules.section1(name))
	f.printTags(h.Tags)
	f.printDescription(collapseLines(h.Description), "", false)
	return f.out.err
}

// Section flushes the buffered section and buffers s in its place.
func (f *Formatter) Section(s parser.Section) error {
	if err := f.ready(); err != nil {
		return err
	}
	f.flush()
	f.section = &s
	return f.out.err
}

// Step queues a step of the buffered section.
func (f *Formatter) Step(step parser.Step) error {
	if err := f.ready(); err != nil {
		return err
	}
	if f.section == nil {
		return ErrNoSection
	}
	f.steps = append(f.steps, pendingStep{step: step})
	return nil
}

// Result pairs r with the most recently queued step.
func (f *Formatter) Result(r Result) error {
	if err := f.ready(); err != nil {
		return err
	}
	if len(f.steps) == 0 {
		return ErrUnpairedResult
	}
	last := &f.steps[len(f.steps)-1]
	if last.result != nil {
		return ErrUnpairedResult
	}
	last.result = &r
	return nil
}

// Examples flushes the buffered outline and writes the examples block
// and its table straight away.
func (f *Formatter) Examples(ex parser.Examples) error {
	if err := f.ready(); err != nil {
		return err
	}
	f.flush()
	f.out.println()
	f.printComments(ex.Comments, " ")
	f.printTags(ex.Tags)
	f.out.println(" ", ex.Keyword, ": ", ex.Name)
	f.printDescription(ex.Description, " ", true)
	if ex.Table != nil {
		f.renderTable(ex.Table.Rows)
	}
	return f.out.err
}

// SyntaxError aborts the pass. The returned error and every later call
// report the malformed input.
func (f *Formatter) SyntaxError(pe parser.ParseError) error {
	if err := f.ready(); err != nil {
		return err
	}
	f.err = newSyntaxError(f.opts.URI, pe)
	f.log.Debug("syntax error", logging.FieldLine, pe.Line, logging.FieldError, pe.Message)
	return f.err
}

// EOF flushes the last buffered section.
func (f *Formatter) EOF() error {
	if err := f.ready(); err != nil {
		return err
	}
	f.flush()
	return f.out.err
}

// Close flushes buffered output and closes w if it is an io.Closer.
// It must be called exactly once.
func (f *Formatter) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	return f.out.close()
}

func (f *Formatter) flush() {
	s := f.section
	if s == nil {
		return
	}

	name := s.Name
	if name == "" {
		name = f.undefined()
	}
	f.out.println(f.rules.section2(name))
	f.printTags(s.Tags)
	f.out.println(s.Description)
	f.section = nil

	f.log.Debug("flush section",
		logging.FieldSection, s.Name,
		logging.FieldKind, s.Kind.String(),
		logging.FieldSteps, len(f.steps))

	if len(f.steps) == 0 {
		return
	}
	f.out.println(markup.TableOpen)
	for _, ps := range f.steps {
		f.printStep(ps.step)
		if ps.result != nil && ps.result.Failed() {
			f.out.println(indent(f.rules.failed(ps.result.ErrorMessage), " "))
		}
	}
	f.out.println(markup.TableClose)
	f.steps = nil
}

func (f *Formatter) printStep(step parser.Step) {
	f.printComments(step.Comments, " ")
	f.out.println(f.rules.tableRow(f.rules.dataCell(step.Keyword) + f.rules.dataCell(step.Text)))
	if step.Argument == nil {
		return
	}
	switch {
	case step.Argument.DataTable != nil:
		f.renderTable(step.Argument.DataTable.Rows)
	case step.Argument.DocString != nil:
		f.docString(step.Argument.DocString)
	}
}

func (f *Formatter) renderTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	f.out.println(markup.TableOpen)
	for i, row := range rows {
		cell := f.rules.dataCell
		if i == 0 {
			cell = f.rules.headerCell
		}
		var cells strings.Builder
		for _, c := range row {
			cells.WriteString(cell(cellBreaks.Replace(c)))
		}
		f.out.println(f.rules.tableRow(cells.String()))
	}
	f.out.println(markup.TableClose)
	f.log.Debug("table", logging.FieldRows, len(rows))
}

func (f *Formatter) docString(ds *parser.DocString) {
	f.out.println(` """`)
	f.out.println(EscapeDocString(indent(ds.Content, " ")))
	f.out.println(` """`)
}

func (f *Formatter) printComments(comments []parser.Comment, indentation string) {
	for _, c := range comments {
		f.out.println(indentation, c.Text)
	}
}

func (f *Formatter) printTags(tags []parser.Tag) {
	if len(tags) == 0 || !f.opts.TagRendering {
		return
	}
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = strings.TrimPrefix(tag.Name, "@")
	}
	list := f.rules.bold(f.rules.italics(" '" + strings.Join(names, "', '") + "' "))
	f.out.println(" ", f.opts.InformationSign, " This section is tagged as", list)
}

func (f *Formatter) printDescription(description, indentation string, blankAfter bool) {
	if description == "" {
		return
	}
	f.out.println(indent(description, indentation))
	if blankAfter {
		f.out.println()
	}
}

func (f *Formatter) undefined() string {
	return f.rules.colorRed(f.rules.italics(undefinedSection))
}

var (
	lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	// A table row must stay on one line.
	cellBreaks = strings.NewReplacer("\r\n", "<br/>", "\n", "<br/>", "\r", "<br/>")
)

func collapseLines(s string) string {
	return lineBreaks.Replace(s)
}

func indent(s, indentation string) string {
	if indentation == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indentation + line
	}
	return strings.Join(lines, "\n")
}

const (
	tripleQuotes        = `"""`
	escapedTripleQuotes = `\"\"\"`
)

// EscapeDocString escapes every triple quote so the text can sit inside a
// """ block. A run of backslashes in front of a quote is doubled, so text
// that already looks escaped survives UnescapeDocString unchanged.
func EscapeDocString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		j := i
		for j < len(s) && s[j] == '\\' {
			j++
		}
		run := j - i
		if j == len(s) || s[j] != '"' {
			b.WriteString(s[i:j])
			if j < len(s) {
				b.WriteByte(s[j])
				j++
			}
			i = j
			continue
		}
		b.WriteString(strings.Repeat(`\`, 2*run))
		if strings.HasPrefix(s[j:], tripleQuotes) {
			b.WriteString(escapedTripleQuotes)
			i = j + len(tripleQuotes)
		} else {
			b.WriteByte('"')
			i = j + 1
		}
	}
	return b.String()
}

// UnescapeDocString reverses EscapeDocString.
func UnescapeDocString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		j := i
		for j < len(s) && s[j] == '\\' {
			j++
		}
		run := j - i
		if j == len(s) || s[j] != '"' {
			b.WriteString(s[i:j])
			if j < len(s) {
				b.WriteByte(s[j])
				j++
			}
			i = j
			continue
		}
		if run%2 == 1 && strings.HasPrefix(s[j-1:], escapedTripleQuotes) {
			b.WriteString(strings.Repeat(`\`, run/2))
			b.WriteString(tripleQuotes)
			i = j - 1 + len(escapedTripleQuotes)
			continue
		}
		b.WriteString(strings.Repeat(`\`, run/2))
		b.WriteByte('"')
		i = j + 1
	}
	return b.String()
}

package formatter

import (
	"errors"
	"io"
	"sort"

	"github.com/chriserin/ftwiki/internal/parser"
)

// Listener receives a document as a sequence of statement callbacks.
// *Formatter implements it.
type Listener interface {
	Feature(parser.FeatureHeader) error
	Section(parser.Section) error
	Step(parser.Step) error
	Result(Result) error
	Examples(parser.Examples) error
	SyntaxError(parser.ParseError) error
	EOF() error
}

// ResultSource supplies the execution result recorded for a step, if any.
type ResultSource interface {
	ResultFor(step parser.Step) (Result, bool)
}

// ResultsByLine keys results by the 1-based line of their step.
type ResultsByLine map[int]Result

func (m ResultsByLine) ResultFor(step parser.Step) (Result, bool) {
	r, ok := m[step.Line]
	return r, ok
}

type walker struct {
	l       Listener
	results ResultSource
	errs    []parser.ParseError
}

// Drive replays doc into l in document order. Parse errors are delivered
// as SyntaxError at the point in the stream where they occurred, so
// everything before them has already been emitted; Drive then stops.
func Drive(doc *parser.Document, errs []parser.ParseError, l Listener, results ResultSource) error {
	w := &walker{l: l, results: results}
	w.errs = append(w.errs, errs...)
	sort.SliceStable(w.errs, func(i, j int) bool { return w.errs[i].Line < w.errs[j].Line })

	if doc != nil && doc.Feature != nil {
		if err := w.feature(doc.Feature); err != nil {
			return err
		}
	}
	if len(w.errs) > 0 {
		return l.SyntaxError(w.errs[0])
	}
	return l.EOF()
}

func (w *walker) check(line int) error {
	if len(w.errs) > 0 && w.errs[0].Line <= line {
		return w.l.SyntaxError(w.errs[0])
	}
	return nil
}

func (w *walker) feature(f *parser.Feature) error {
	if err := w.check(f.Header.Line); err != nil {
		return err
	}
	if err := w.l.Feature(f.Header); err != nil {
		return err
	}
	if f.Background != nil {
		if err := w.section(f.Background); err != nil {
			return err
		}
	}
	for i := range f.Sections {
		if err := w.section(&f.Sections[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) section(s *parser.Section) error {
	if err := w.check(s.Line); err != nil {
		return err
	}
	if err := w.l.Section(*s); err != nil {
		return err
	}
	for _, step := range s.Steps {
		if err := w.check(step.Line); err != nil {
			return err
		}
		if err := w.l.Step(step); err != nil {
			return err
		}
		if w.results == nil {
			continue
		}
		if r, ok := w.results.ResultFor(step); ok {
			if err := w.l.Result(r); err != nil {
				return err
			}
		}
	}
	for _, ex := range s.Examples {
		if err := w.check(ex.Line); err != nil {
			return err
		}
		if err := w.l.Examples(ex); err != nil {
			return err
		}
	}
	return nil
}

// Render runs one complete pass: it builds a Formatter on w, drives doc
// through it and closes it on every path, including a syntax error.
func Render(w io.Writer, doc *parser.Document, errs []parser.ParseError, opts Options, results ResultSource, options ...Option) (err error) {
	f, err := New(w, opts, options...)
	if err != nil {
		if c, ok := w.(io.Closer); ok {
			return errors.Join(err, c.Close())
		}
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Drive(doc, errs, f, results)
}

package parser

import "fmt"

// Statement tree for a .ft file.

type Document struct {
	Feature *Feature
}

type Feature struct {
	Header     FeatureHeader
	Background *Section
	Sections   []Section
}

type FeatureHeader struct {
	Tags        []Tag
	Keyword     string
	Name        string
	Description string
	Line        int
}

type SectionKind int

const (
	KindBackground SectionKind = iota
	KindScenario
	KindScenarioOutline
)

func (k SectionKind) String() string {
	switch k {
	case KindBackground:
		return "background"
	case KindScenario:
		return "scenario"
	case KindScenarioOutline:
		return "scenario outline"
	default:
		return "unknown"
	}
}

// Section is a background, scenario or scenario outline. An empty Name
// means the section is undefined.
type Section struct {
	Kind        SectionKind
	Keyword     string
	Tags        []Tag
	Name        string
	Description string
	Steps       []Step
	Examples    []Examples // outlines only
	Line        int        // 1-based line number of the keyword line
}

type Tag struct {
	Name string // e.g. "@smoke", "@ft:42"
}

type Comment struct {
	Text string // including the leading #
	Line int
}

type Step struct {
	Comments []Comment
	Keyword  string // Given, When, Then, And, But, *
	Text     string
	Argument *StepArgument
	Line     int
}

type StepArgument struct {
	DocString *DocString
	DataTable *DataTable
}

type DocString struct {
	MediaType string
	Content   string
}

// DataTable rows all have the same number of cells. Row 0 is the header.
type DataTable struct {
	Rows [][]string
}

type Examples struct {
	Comments    []Comment
	Tags        []Tag
	Keyword     string
	Name        string
	Description string
	Table       *DataTable
	Line        int
}

type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

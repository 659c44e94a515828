package syntax

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"ipumsprep/internal/core/labels"
	"ipumsprep/internal/core/varspec"
	perr "ipumsprep/internal/platform/errors"
	"ipumsprep/internal/platform/logger"
	"ipumsprep/internal/platform/text"
)

const maxLineBytes = 1024 * 1024

var (
	ident = `[A-Za-z_@#$][A-Za-z0-9_.@#$]*`
	quote = `(?:"(.*)"|'(.*)')`

	recordRe   = regexp.MustCompile(`(?i)/\s*record\s*=\s*(\d+)(?:\s*-\s*(\d+))?`)
	recTypeRe  = regexp.MustCompile(`(?i)^record\s+type\s+["']?([^"'\s.]+)["']?`)
	dataVarRe  = regexp.MustCompile(`^(` + ident + `)\s+(\d+)(?:\s*-\s*(\d+))?\s*(?:\(\s*([A-Za-z]+|\d+)\s*\))?$`)
	varLabelRe = regexp.MustCompile(`^(` + ident + `)\s+` + quote + `$`)
	slashVarRe = regexp.MustCompile(`^/\s*(` + ident + `)$`)
	contRe     = regexp.MustCompile(`^\+\s*` + quote + `$`)
	valueRe    = regexp.MustCompile(`^(?:"([^"]*)"|'([^']*)'|(\S+))\s+` + quote + `$`)
)

// File is the parsed content of a syntax file
type File struct {
	Layout      varspec.Layout
	ValueLabels []labels.ValueLabel
}

type state uint8

const (
	stateWait state = iota
	stateFileType
	stateDataList
	stateVarLabels
	stateValueLabels
)

type parser struct {
	st   state
	line int

	mixed     bool
	recStart  int
	recEnd    int
	recType   string
	fileTypeL int

	vars     []varspec.Variable
	varLine  map[string]int
	varLabel map[string]string
	vals     []labels.ValueLabel
	curVar   string
}

// ParseFile opens and parses the syntax file at path
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.SourceIO(err, "open syntax file "+path)
	}
	defer func() { _ = f.Close() }()

	out, err := Parse(f)
	if err != nil {
		return nil, perr.WithOp(err, "parse "+path)
	}
	return out, nil
}

// Parse reads a syntax file and builds the validated layout
// Grammar errors are Syntax errors; layout violations are MalformedSpec; both carry the line
func Parse(r io.Reader) (*File, error) {
	p := &parser{varLine: map[string]int{}, varLabel: map[string]string{}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		p.line++
		if err := p.feed(strings.TrimSpace(sc.Text())); err != nil {
			return nil, perr.WithLine(err, p.line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, perr.WithLine(perr.SourceIO(err, "read syntax file"), p.line+1)
	}
	return p.finish()
}

func (p *parser) feed(s string) error {
	if s == "" {
		return nil
	}
	switch p.st {
	case stateWait:
		return p.keyword(s)
	case stateFileType:
		return p.fileType(s)
	case stateDataList:
		return p.dataList(s)
	case stateVarLabels:
		return p.variableLabel(s)
	case stateValueLabels:
		return p.valueLabel(s)
	}
	return perr.Internalf("parser in unknown state %d", p.st)
}

func (p *parser) keyword(s string) error {
	if strings.HasPrefix(s, "*") {
		return nil
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "file type mixed"):
		p.mixed = true
		p.fileTypeL = p.line
		p.st = stateFileType
		if recordRe.MatchString(s) {
			return p.fileType(s)
		}
	case strings.HasPrefix(lower, "end file type"):
	case strings.HasPrefix(lower, "record type"):
		if !p.mixed {
			return perr.Syntaxf("record type outside file type mixed")
		}
		m := recTypeRe.FindStringSubmatch(s)
		if m == nil {
			return perr.WithRaw(perr.Syntaxf("record type has no value"), s)
		}
		p.recType = m[1]
	case strings.HasPrefix(lower, "data list"):
		if p.mixed && p.recType == "" {
			return perr.Syntaxf("data list in a hierarchical file before any record type")
		}
		p.st = stateDataList
	case strings.HasPrefix(lower, "variable labels"):
		p.st = stateVarLabels
	case strings.HasPrefix(lower, "value labels"):
		p.st = stateValueLabels
		p.curVar = ""
	}
	return nil
}

func (p *parser) fileType(s string) error {
	m := recordRe.FindStringSubmatch(s)
	if m == nil {
		return perr.WithRaw(perr.Syntaxf("expected /record = start-end after file type mixed"), s)
	}
	start, end, err := span(m[1], m[2])
	if err != nil {
		return perr.WithRaw(err, s)
	}
	p.recStart, p.recEnd = start, end
	p.st = stateWait
	return nil
}

func (p *parser) dataList(s string) error {
	if strings.HasPrefix(s, ".") {
		p.st = stateWait
		return nil
	}
	m := dataVarRe.FindStringSubmatch(s)
	if m == nil {
		return perr.WithRaw(perr.Syntaxf("unrecognized data list entry"), s)
	}
	start, end, err := span(m[2], m[3])
	if err != nil {
		return perr.WithRaw(perr.WithVariable(err, m[1]), s)
	}
	v := varspec.Variable{
		Name:       m[1],
		RecordType: p.recType,
		Start:      start - 1,
		Width:      end - start + 1,
	}
	switch f := m[4]; {
	case f == "":
	case strings.EqualFold(f, "a"):
		v.Kind = varspec.String
	case isNumber(f):
		v.Decimals, _ = strconv.Atoi(f)
	default:
		return perr.WithRaw(perr.WithVariable(perr.Syntaxf("unknown format (%s)", f), m[1]), s)
	}
	p.vars = append(p.vars, v)
	key := varKey(v.RecordType, v.Name)
	if _, seen := p.varLine[key]; !seen {
		p.varLine[key] = p.line
	}
	return nil
}

func (p *parser) variableLabel(s string) error {
	if strings.HasPrefix(s, ".") {
		p.st = stateWait
		return nil
	}
	m := varLabelRe.FindStringSubmatch(s)
	if m == nil {
		return perr.WithRaw(perr.Syntaxf("unrecognized variable label"), s)
	}
	p.varLabel[m[1]] = text.ToUTF8(first(m[2], m[3]))
	return nil
}

func (p *parser) valueLabel(s string) error {
	if strings.HasPrefix(s, ".") {
		p.st = stateWait
		return nil
	}
	if m := slashVarRe.FindStringSubmatch(s); m != nil {
		p.curVar = m[1]
		return nil
	}
	if m := contRe.FindStringSubmatch(s); m != nil {
		if len(p.vals) == 0 || p.vals[len(p.vals)-1].Variable != p.curVar {
			return perr.WithRaw(perr.Syntaxf("label continuation without a label to continue"), s)
		}
		p.vals[len(p.vals)-1].Label += text.ToUTF8(first(m[1], m[2]))
		return nil
	}
	m := valueRe.FindStringSubmatch(s)
	if m == nil {
		return perr.WithRaw(perr.Syntaxf("unrecognized value label"), s)
	}
	if p.curVar == "" {
		return perr.WithRaw(perr.Syntaxf("value label before any /VARIABLE"), s)
	}
	p.vals = append(p.vals, labels.ValueLabel{
		Variable: p.curVar,
		Value:    first(m[1], m[2], m[3]),
		Label:    text.ToUTF8(first(m[4], m[5])),
		Line:     p.line,
	})
	return nil
}

// finish applies labels and validates the layout
func (p *parser) finish() (*File, error) {
	if p.st == stateFileType {
		return nil, perr.WithLine(perr.Syntaxf("file type mixed without /record"), p.fileTypeL)
	}
	if len(p.vars) == 0 {
		return nil, perr.Syntaxf("no data list variables found")
	}

	unlabelled := 0
	for i := range p.vars {
		if l, ok := p.varLabel[p.vars[i].Name]; ok {
			p.vars[i].Label = l
		} else {
			unlabelled++
		}
	}

	var (
		layout varspec.Layout
		err    error
	)
	if p.mixed {
		layout, err = varspec.NewMixedLayout(p.recStart-1, p.recEnd-p.recStart+1, p.vars)
	} else {
		layout, err = varspec.NewLayout(p.vars)
	}
	if err != nil {
		return nil, p.locate(err)
	}

	logger.Named("syntax").Debug().
		Bool("mixed", p.mixed).
		Int("variables", len(p.vars)).
		Strs("record_types", layout.RecordTypes()).
		Int("unlabelled", unlabelled).
		Int("value_labels", len(p.vals)).
		Msg("syntax file parsed")

	return &File{Layout: layout, ValueLabels: p.vals}, nil
}

// locate attaches the declaring line to a layout error that names a variable
func (p *parser) locate(err error) error {
	e, ok := perr.As(err)
	if !ok || e.Variable() == "" {
		return err
	}
	for _, v := range p.vars {
		if v.Name != e.Variable() {
			continue
		}
		if l, ok := p.varLine[varKey(v.RecordType, v.Name)]; ok {
			return perr.WithLine(err, l)
		}
	}
	return err
}

// span converts "S" or "S-E" (1-based, inclusive) to start and end
func span(s, e string) (int, int, error) {
	start, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, perr.Syntaxf("position %q is not a number", s)
	}
	end := start
	if e != "" {
		if end, err = strconv.Atoi(e); err != nil {
			return 0, 0, perr.Syntaxf("position %q is not a number", e)
		}
	}
	if start < 1 {
		return 0, 0, perr.Syntaxf("positions start at column 1, got %d", start)
	}
	if end < start {
		return 0, 0, perr.Syntaxf("end column %d before start column %d", end, start)
	}
	return start, end, nil
}

func varKey(recordType, name string) string { return recordType + "\x00" + name }

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// first returns the first non-empty alternative of a regexp match
func first(alts ...string) string {
	for _, a := range alts {
		if a != "" {
			return a
		}
	}
	return ""
}

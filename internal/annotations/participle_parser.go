package annotations

import (
	stderrors "errors"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/pybind/internal/errors"
)

// directiveLexer tokenizes directive lines. Go operators are lexed so that
// default-value expressions can be captured verbatim.
var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "String", Pattern: "\"(\\\\.|[^\"\\\\])*\"|`[^`]*`"},
	{Name: "Char", Pattern: `'(\\.|[^'\\])+'`},
	{Name: "Number", Pattern: `[0-9][0-9a-fA-FxXoObB_]*(\.[0-9_]+)?([eE][-+]?[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Open", Pattern: `[(\[{]`},
	{Name: "Close", Pattern: `[)\]}]`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Op", Pattern: `(\.\.\.|==|!=|<=|>=|&&|\|\||<-|:=|\*\*|[-+*/%&|^<>!=:;.~])`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// ParticipleParser parses //py: directives using alecthomas/participle
type ParticipleParser struct {
	attribute *participle.Parser[Attribute]
	arg       *participle.Parser[Arg]
}

// NewParticipleParser creates a new directive parser
func NewParticipleParser() *ParticipleParser {
	options := []participle.Option{
		participle.Lexer(directiveLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	}
	return &ParticipleParser{
		attribute: participle.MustBuild[Attribute](options...),
		arg:       participle.MustBuild[Arg](options...),
	}
}

// ParseAttribute parses one directive comment line found at loc
func (p *ParticipleParser) ParseAttribute(comment string, loc errors.SourceLocation) (*Attribute, error) {
	raw := strings.TrimSpace(comment)
	attr, err := p.attribute.ParseString(loc.File, raw)
	if err != nil {
		return nil, errors.MalformedDirective(errorLocation(loc, err), raw, participleMessage(err))
	}
	attr.Raw = raw
	attr.Location = loc
	for _, arg := range attr.Args {
		fillExprText(arg, raw)
	}
	return attr, nil
}

// ParseArg parses a single argument directive such as `b = 2` or `"*args"`.
// It is used for export-table entries, which carry the same argument syntax
// outside of source comments.
func (p *ParticipleParser) ParseArg(text string, loc errors.SourceLocation) (*Arg, error) {
	arg, err := p.arg.ParseString(loc.File, text)
	if err != nil {
		return nil, errors.MalformedDirective(loc, text, participleMessage(err))
	}
	fillExprText(arg, text)
	return arg, nil
}

func fillExprText(arg *Arg, input string) {
	if arg.Default == nil || arg.Default.Value == nil {
		return
	}
	e := arg.Default.Value
	start, end := e.Pos.Offset, e.EndPos.Offset
	if end < start || end > len(input) {
		end = len(input)
	}
	e.Text = strings.TrimSpace(input[start:end])
}

func participleMessage(err error) string {
	var perr participle.Error
	if stderrors.As(err, &perr) {
		return perr.Message()
	}
	return err.Error()
}

func errorLocation(base errors.SourceLocation, err error) errors.SourceLocation {
	var perr participle.Error
	if stderrors.As(err, &perr) {
		return offsetLocation(base, perr.Position())
	}
	return base
}

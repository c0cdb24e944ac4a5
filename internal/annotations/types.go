package annotations

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/pybind/internal/errors"
)

// DirectivePrefix starts every comment line the generator interprets
const DirectivePrefix = "//py:"

// Known directive names
const (
	DirectiveFn            = "fn"
	DirectiveModule        = "module"
	DirectiveTextSignature = "text_signature"
)

// IsDirective reports whether a raw comment line is a //py: directive
func IsDirective(comment string) bool {
	return strings.HasPrefix(strings.TrimSpace(comment), DirectivePrefix)
}

// Attribute is one parsed //py:name(args...) line
type Attribute struct {
	Pos  lexer.Position
	Name string `parser:"'//' 'py' ':' @Ident"`
	Args []*Arg `parser:"( '(' ( @@ ( ',' @@ )* ','? )? ')' )?"`

	// Raw is the directive as written and Location where it was written.
	// Both are filled in by the parser, not the grammar.
	Raw      string                `parser:""`
	Location errors.SourceLocation `parser:""`
}

// Arg is one entry of a directive's argument list
type Arg struct {
	Pos     lexer.Position
	Star    *StarArg  `parser:"  @@"`
	Default *KeyValue `parser:"| @@"`
	String  *string   `parser:"| @String"`
	Path    *Path     `parser:"| @@"`
}

// StarArg is an unquoted * or ** marker, optionally followed by a name
type StarArg struct {
	Stars string `parser:"@('*' | '**')"`
	Name  string `parser:"@Ident?"`
}

// KeyValue is name = <Go expression>
type KeyValue struct {
	Key   string `parser:"@Ident '='"`
	Value *Expr  `parser:"@@"`
}

// Path is a dotted identifier path
type Path struct {
	Parts []string `parser:"@Ident ( '.' @Ident )*"`
}

// String joins the path back together
func (p *Path) String() string {
	return strings.Join(p.Parts, ".")
}

// Expr is an arbitrary Go expression. The grammar only balances brackets
// and stops at a top-level comma or closing bracket; Text holds the source
// slice the parser matched.
type Expr struct {
	Pos    lexer.Position
	Items  []*ExprItem `parser:"@@+"`
	EndPos lexer.Position

	Text string `parser:""`
}

// ExprItem is a token or bracketed group at the top level of an Expr
type ExprItem struct {
	Group *ExprGroup `parser:"  @@"`
	Atom  string     `parser:"| @( String | Char | Number | Ident | Op )"`
}

// ExprGroup is a bracketed sub-expression, which may contain commas
type ExprGroup struct {
	Open  string       `parser:"@Open"`
	Items []*ExprInner `parser:"@@*"`
	Close string       `parser:"@Close"`
}

// ExprInner is a token or group inside brackets
type ExprInner struct {
	Group *ExprGroup `parser:"  @@"`
	Atom  string     `parser:"| @( String | Char | Number | Ident | Op | Comma )"`
}

// Source returns the argument as written, for diagnostics
func (a *Arg) Source() string {
	switch {
	case a.Star != nil:
		return a.Star.Stars + a.Star.Name
	case a.Default != nil:
		return a.Default.Key + " = " + a.Default.Value.Text
	case a.String != nil:
		return *a.String
	case a.Path != nil:
		return a.Path.String()
	default:
		return ""
	}
}

// PathArg returns argument i when it is a bare path
func (a *Attribute) PathArg(i int) (string, bool) {
	if i >= len(a.Args) || a.Args[i].Path == nil {
		return "", false
	}
	return a.Args[i].Path.String(), true
}

// StringArg returns argument i, unquoted, when it is a string literal
func (a *Attribute) StringArg(i int) (string, bool) {
	if i >= len(a.Args) || a.Args[i].String == nil {
		return "", false
	}
	s, err := strconv.Unquote(*a.Args[i].String)
	if err != nil {
		return "", false
	}
	return s, true
}

// ArgLocation returns the source location of argument i
func (a *Attribute) ArgLocation(i int) errors.SourceLocation {
	if i >= len(a.Args) {
		return a.Location
	}
	return offsetLocation(a.Location, a.Args[i].Pos)
}

func offsetLocation(base errors.SourceLocation, pos lexer.Position) errors.SourceLocation {
	loc := base
	if pos.Line <= 1 {
		loc.Column = base.Column + pos.Column - 1
	}
	return loc
}

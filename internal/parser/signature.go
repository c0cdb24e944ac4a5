package parser

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"

	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/models"
)

// ExtractSignature converts a function declaration into the parameter and
// return description the wrapper synthesizer works from. Methods, generic
// functions and parameters without a usable name are rejected.
func ExtractSignature(fset *token.FileSet, decl *ast.FuncDecl) (models.FunctionSignature, error) {
	name := decl.Name.Name
	sig := models.FunctionSignature{
		Name:     name,
		Location: location(fset, decl.Name.Pos()),
	}

	if decl.Recv != nil {
		return sig, errors.UnexpectedReceiver(location(fset, decl.Recv.Pos()), name)
	}
	if decl.Type.TypeParams != nil && len(decl.Type.TypeParams.List) > 0 {
		return sig, errors.UnsupportedArgument(location(fset, decl.Type.TypeParams.Pos()), name, "type parameters")
	}

	for _, field := range decl.Type.Params.List {
		loc := location(fset, field.Pos())
		if _, variadic := field.Type.(*ast.Ellipsis); variadic {
			return sig, errors.UnsupportedArgument(loc, name, "variadic parameter "+exprString(fset, field.Type))
		}
		if len(field.Names) == 0 {
			return sig, errors.UnsupportedArgument(loc, name, "unnamed parameter of type "+exprString(fset, field.Type))
		}
		for _, ident := range field.Names {
			if ident.Name == "_" {
				return sig, errors.UnsupportedArgument(location(fset, ident.Pos()), name, "blank identifier parameter")
			}
			sig.Parameters = append(sig.Parameters, classifyParameter(fset, ident, field.Type))
		}
	}

	ret, err := extractReturn(fset, decl)
	if err != nil {
		return sig, err
	}
	sig.Return = ret
	return sig, nil
}

func classifyParameter(fset *token.FileSet, ident *ast.Ident, typ ast.Expr) models.ParameterSpec {
	p := models.ParameterSpec{
		Name:       ident.Name,
		NativeType: exprString(fset, typ),
		Mutable:    true,
		Location:   location(fset, ident.Pos()),
	}
	p.ElemType = p.NativeType

	if star, ok := typ.(*ast.StarExpr); ok {
		p.ByRef = true
		p.PassByReference = true
		p.ElemType = exprString(fset, star.X)
	}
	p.IsRuntimeContext = isRuntimeContext(typ)
	if inner, ok := optionalInner(typ); ok {
		p.Optional = true
		p.OptionalInner = exprString(fset, inner)
	}
	return p
}

func extractReturn(fset *token.FileSet, decl *ast.FuncDecl) (models.ReturnSpec, error) {
	var results []ast.Expr
	if decl.Type.Results != nil {
		for _, field := range decl.Type.Results.List {
			n := len(field.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				results = append(results, field.Type)
			}
		}
	}

	switch len(results) {
	case 0:
		return models.ReturnSpec{Kind: models.ReturnUnit}, nil
	case 1:
		if isError(results[0]) {
			return models.ReturnSpec{Kind: models.ReturnResult, Inner: models.ReturnUnit}, nil
		}
		return models.ReturnSpec{
			Kind:       valueKind(results[0]),
			NativeType: exprString(fset, results[0]),
		}, nil
	case 2:
		if isError(results[1]) {
			return models.ReturnSpec{
				Kind:       models.ReturnResult,
				Inner:      valueKind(results[0]),
				NativeType: exprString(fset, results[0]),
			}, nil
		}
	}

	types := make([]string, len(results))
	for i, r := range results {
		types[i] = exprString(fset, r)
	}
	return models.ReturnSpec{}, errors.UnsupportedReturn(
		location(fset, decl.Type.Results.Pos()), decl.Name.Name, fmt.Sprintf("(%s)", joinTypes(types)))
}

func valueKind(expr ast.Expr) models.ReturnKind {
	if _, ok := optionalInner(expr); ok {
		return models.ReturnOptional
	}
	return models.ReturnValue
}

// finalSegment returns the last name of an identifier or selector path
func finalSegment(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.ParenExpr:
		return finalSegment(e.X)
	}
	return ""
}

func isRuntimeContext(expr ast.Expr) bool {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	return finalSegment(expr) == RuntimeContextType
}

func optionalInner(expr ast.Expr) (ast.Expr, bool) {
	idx, ok := expr.(*ast.IndexExpr)
	if !ok || finalSegment(idx.X) != OptionalType {
		return nil, false
	}
	return idx.Index, true
}

func isError(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == "error"
}

// isCollector reports whether typ is T or *T for a final segment of want
func isCollector(typ ast.Expr, want string, pointer bool) bool {
	star, isPtr := typ.(*ast.StarExpr)
	if isPtr != pointer {
		return false
	}
	if isPtr {
		typ = star.X
	}
	return finalSegment(typ) == want
}

func exprString(fset *token.FileSet, expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return fmt.Sprintf("%T", expr)
	}
	return buf.String()
}

func joinTypes(types []string) string {
	var buf bytes.Buffer
	for i, t := range types {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(t)
	}
	return buf.String()
}

func location(fset *token.FileSet, pos token.Pos) errors.SourceLocation {
	position := fset.Position(pos)
	return errors.SourceLocation{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

package annotations

import (
	"strconv"
	"strings"

	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/models"
)

// ArgDirective converts one directive argument into its model form. The
// result's KwOnly flag is left for ArgDirectives to set.
func ArgDirective(arg *Arg, loc errors.SourceLocation) (models.ArgDirective, error) {
	switch {
	case arg.Star != nil:
		return starDirective(arg.Star.Stars, arg.Star.Name, arg.Source(), loc)
	case arg.Default != nil:
		return models.ArgDirective{
			Kind:    models.ArgDefault,
			Name:    arg.Default.Key,
			Default: arg.Default.Value.Text,
		}, nil
	case arg.Path != nil:
		if len(arg.Path.Parts) != 1 {
			return models.ArgDirective{}, errors.MalformedDirective(loc, arg.Source(), "argument directive must be a parameter name")
		}
		return models.ArgDirective{Kind: models.ArgPlain, Name: arg.Path.Parts[0]}, nil
	case arg.String != nil:
		s, err := strconv.Unquote(*arg.String)
		if err != nil {
			return models.ArgDirective{}, errors.MalformedDirective(loc, arg.Source(), "invalid string literal").WithCause(err)
		}
		stars := s[:len(s)-len(strings.TrimLeft(s, "*"))]
		if stars == "" {
			return models.ArgDirective{}, errors.MalformedDirective(loc, arg.Source(), `string argument directives must be "*", "*name" or "**name"`)
		}
		return starDirective(stars, s[len(stars):], arg.Source(), loc)
	}
	return models.ArgDirective{}, errors.MalformedDirective(loc, arg.Source(), "empty argument directive")
}

func starDirective(stars, name, raw string, loc errors.SourceLocation) (models.ArgDirective, error) {
	if name != "" && !isIdent(name) {
		return models.ArgDirective{}, errors.MalformedDirective(loc, raw, "invalid parameter name '"+name+"'")
	}
	switch stars {
	case "*":
		if name == "" {
			return models.ArgDirective{Kind: models.ArgVarArgsSeparator}, nil
		}
		return models.ArgDirective{Kind: models.ArgVarArgs, Name: name}, nil
	case "**":
		if name == "" {
			return models.ArgDirective{}, errors.MalformedDirective(loc, raw, "** must name the parameter that collects keywords")
		}
		return models.ArgDirective{Kind: models.ArgKeywordArgs, Name: name}, nil
	}
	return models.ArgDirective{}, errors.MalformedDirective(loc, raw, "too many '*'")
}

// ArgDirectives converts a directive's argument list, marking every entry
// after a separator or varargs collector keyword-only. The list must contain
// at most one separator or varargs entry, at most one kwargs entry, nothing
// after the kwargs entry and no parameter twice.
func ArgDirectives(args []*Arg, locate func(i int) errors.SourceLocation) ([]models.ArgDirective, error) {
	var (
		out      []models.ArgDirective
		kwOnly   bool
		sawStar  bool
		sawKwarg bool
		seen     = make(map[string]bool)
	)
	for i, arg := range args {
		loc := locate(i)
		d, err := ArgDirective(arg, loc)
		if err != nil {
			return nil, err
		}
		if sawKwarg {
			return nil, errors.MalformedDirective(loc, arg.Source(), "no argument may follow the keyword collector")
		}
		if d.Name != "" {
			if seen[d.Name] {
				return nil, errors.MalformedDirective(loc, arg.Source(), "parameter '"+d.Name+"' named twice")
			}
			seen[d.Name] = true
		}

		switch d.Kind {
		case models.ArgVarArgsSeparator, models.ArgVarArgs:
			if sawStar {
				return nil, errors.MalformedDirective(loc, arg.Source(), "only one '*' separator or varargs collector is allowed")
			}
			sawStar = true
			d.KwOnly = kwOnly
			kwOnly = true
		case models.ArgKeywordArgs:
			sawKwarg = true
			d.KwOnly = kwOnly
		default:
			d.KwOnly = kwOnly
		}
		out = append(out, d)
	}
	return out, nil
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return s != ""
}

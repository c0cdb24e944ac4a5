package pyrt

// ParamDescription describes one interpreter-visible parameter of a
// wrapped function, in declaration order.
type ParamDescription struct {
	Name string
	// IsOptional parameters may be omitted by the caller.
	IsOptional bool
	// KwOnly parameters can only be passed by keyword.
	KwOnly bool
}

// ParseFnArgs matches positional and keyword arguments against params and
// stores the matched objects in output. Positionals fill the parameters
// that are not keyword-only, in order (nil for omitted optional
// parameters). When acceptArgs is set, positionals beyond the matched ones
// are returned as the remaining tuple; when acceptKwargs is set, unmatched
// keywords are returned as the remaining dict. All failures are TypeErrors
// naming fname.
func ParseFnArgs(fname string, params []ParamDescription, args Tuple, kwargs *Dict, acceptArgs, acceptKwargs bool, output []*Object) (Tuple, *Dict, error) {
	nargs := len(args)
	usedArgs := 0
	usedKeywords := 0

	// pos is the positional slot of the current parameter. Keyword-only
	// parameters take no slot, whatever their declaration order.
	pos := 0
	for i, p := range params {
		slot := -1
		if !p.KwOnly {
			slot = pos
			pos++
		}
		if kw, ok := kwargs.Get(p.Name); ok {
			usedKeywords++
			if slot >= 0 && slot < nargs {
				return nil, nil, NewTypeError("%s got multiple values for argument '%s' (by name and at position %d)", fname, p.Name, slot+1)
			}
			output[i] = kw
			continue
		}
		switch {
		case p.KwOnly:
			if !p.IsOptional {
				return nil, nil, NewTypeError("%s missing required keyword-only argument '%s'", fname, p.Name)
			}
			output[i] = nil
		case slot < nargs:
			usedArgs++
			output[i] = args[slot]
		default:
			if !p.IsOptional {
				return nil, nil, NewTypeError("%s missing required argument '%s' (pos %d)", fname, p.Name, slot+1)
			}
			output[i] = nil
		}
	}

	if !acceptKwargs && kwargs.Len() > usedKeywords {
		for _, key := range kwargs.Keys() {
			if !hasParam(params, key) {
				return nil, nil, NewTypeError("%s got an unexpected keyword argument '%s'", fname, key)
			}
		}
	}

	if !acceptArgs && usedArgs < nargs {
		return nil, nil, NewTypeError("%s takes %d positional argument%s but %d %s given",
			fname, usedArgs, plural(usedArgs), nargs, wasWere(nargs))
	}

	var restArgs Tuple
	if acceptArgs {
		restArgs = args.Slice(usedArgs, nargs)
	}
	var restKwargs *Dict
	if acceptKwargs {
		restKwargs = kwargs.Copy()
		for _, p := range params {
			restKwargs.Delete(p.Name)
		}
	}
	return restArgs, restKwargs, nil
}

func hasParam(params []ParamDescription, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func wasWere(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}

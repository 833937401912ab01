// internal/ar/sexpr.go
// Bundle loading from textual AR dumps (spec §6.4: "the parser is used
// to load textual AR dumps"). The distilled spec hands us the atom/expr
// grammar (internal/sexpr) but not arbos's own bundle encoding, which
// the retrieval pack doesn't carry beyond the s-expression primitives
// themselves; the schema below is this module's own concretization of
// "a bundle, serialized as S-expressions", built directly out of the
// Bundle/Function/CFG/Statement shapes already defined in this package:
//
//	(bundle $name
//	  (global $name) ...
//	  (function $name
//	    (params (param $name) ...)
//	    (vararg)            ; only present if the function is variadic
//	    (decl)              ; only present for declaration-only functions
//	    (cfg $entry
//	      (block $name
//	        (succ $name) ...
//	        (stmt !id $kind
//	          (result $var) (op $name) (conv $name)
//	          (operand (var $name) | (const $text)) ...
//	          (callee $name) (arg ...) (size ...)) ...) ...))
//
// Statement.Type/Param.Type are left unset: no pass in this module reads
// them yet (confirmed by grep), so the loader doesn't need a type
// sub-grammar to be useful.
package ar

import (
	"ikos/internal/ikoserr"
	"ikos/internal/sexpr"
	"ikos/internal/varid"
)

var stmtKindNames = map[string]StmtKind{
	"arithmetic": Arithmetic, "int-compare": IntCompare, "float-op": FloatOp,
	"float-compare": FloatCompare, "bitwise": Bitwise, "assign": Assign,
	"conv": Conv, "pointer-shift": PointerShift, "allocate": Allocate,
	"load": Load, "store": Store, "insert-element": InsertElement,
	"extract-element": ExtractElement, "memcpy": Memcpy, "memmove": Memmove,
	"memset": Memset, "abstract-variable": AbstractVariable,
	"abstract-memory": AbstractMemory, "call": Call, "invoke": Invoke,
	"return-value": ReturnValue, "landing-pad": LandingPad, "resume": Resume,
	"unreachable": Unreachable, "va-start": VaStart, "va-end": VaEnd,
	"va-arg": VaArg, "va-copy": VaCopy, "block-start": BlockStart,
	"block-end": BlockEnd,
}

var convKindNames = map[string]ConvKind{
	"inttoptr": IntToPtr, "ptrtoint": PtrToInt, "bitcast": Bitcast,
	"trunc": Trunc, "ext": Ext, "sign-cast": SignCast,
}

// LoadBundle parses src (a textual AR dump in the schema documented
// above) into a Bundle, allocating every variable it sees through vf.
func LoadBundle(src string, vf *varid.Factory) (*Bundle, error) {
	top, err := sexpr.ParseOne(src)
	if err != nil {
		return nil, err
	}
	if functorTag(top) != "bundle" {
		return nil, ikoserr.New(ikoserr.InvalidInput, "bundle dump must start with (bundle ...)")
	}
	name, ok := stringArg(top, 0)
	if !ok {
		return nil, ikoserr.New(ikoserr.InvalidInput, "(bundle ...) is missing its name")
	}
	b := NewBundle(name)
	for _, child := range top.Args[1:] {
		switch functorTag(child) {
		case "global":
			gname, ok := stringArg(child, 0)
			if !ok {
				return nil, ikoserr.New(ikoserr.InvalidInput, "(global ...) is missing its name")
			}
			b.Globals = append(b.Globals, Global{Name: gname})
		case "function":
			fn, err := loadFunction(child, vf)
			if err != nil {
				return nil, err
			}
			b.AddFunction(fn)
		default:
			return nil, ikoserr.Newf(ikoserr.InvalidInput, "unexpected bundle member: %s", functorTag(child))
		}
	}
	return b, nil
}

func loadFunction(e sexpr.Expr, vf *varid.Factory) (*Function, error) {
	name, ok := stringArg(e, 0)
	if !ok {
		return nil, ikoserr.New(ikoserr.InvalidInput, "(function ...) is missing its name")
	}
	fn := &Function{Name: name}

	var cfgExpr *sexpr.Expr
	for _, child := range e.Args[1:] {
		switch functorTag(child) {
		case "params":
			for _, p := range child.Args {
				if functorTag(p) != "param" {
					return nil, ikoserr.Newf(ikoserr.InvalidInput, "expected (param ...), got %s", functorTag(p))
				}
				pname, ok := stringArg(p, 0)
				if !ok {
					return nil, ikoserr.New(ikoserr.InvalidInput, "(param ...) is missing its name")
				}
				fn.Params = append(fn.Params, Param{Name: pname})
			}
		case "vararg":
			fn.IsVarArg = true
		case "decl":
			// no CFG: fn.IsDecl() reports true as long as fn.CFG stays nil
		case "cfg":
			c := child
			cfgExpr = &c
		default:
			return nil, ikoserr.Newf(ikoserr.InvalidInput, "unexpected function member: %s", functorTag(child))
		}
	}
	if cfgExpr != nil {
		cfg, err := loadCFG(*cfgExpr, vf)
		if err != nil {
			return nil, err
		}
		fn.CFG = cfg
	}
	return fn, nil
}

func loadCFG(e sexpr.Expr, vf *varid.Factory) (*CFG, error) {
	entry, ok := stringArg(e, 0)
	if !ok {
		return nil, ikoserr.New(ikoserr.InvalidInput, "(cfg ...) is missing its entry block name")
	}
	cfg := NewCFG(entry)
	for _, child := range e.Args[1:] {
		if functorTag(child) != "block" {
			return nil, ikoserr.Newf(ikoserr.InvalidInput, "expected (block ...), got %s", functorTag(child))
		}
		block, err := loadBlock(child, vf)
		if err != nil {
			return nil, err
		}
		cfg.AddBlock(block)
	}
	return cfg, nil
}

func loadBlock(e sexpr.Expr, vf *varid.Factory) (*BasicBlock, error) {
	name, ok := stringArg(e, 0)
	if !ok {
		return nil, ikoserr.New(ikoserr.InvalidInput, "(block ...) is missing its name")
	}
	block := NewBasicBlock(name)
	for _, child := range e.Args[1:] {
		switch functorTag(child) {
		case "succ":
			succName, ok := stringArg(child, 0)
			if !ok {
				return nil, ikoserr.New(ikoserr.InvalidInput, "(succ ...) is missing its target name")
			}
			block.AddSuccessor(succName)
		case "stmt":
			stmt, err := loadStatement(child, vf)
			if err != nil {
				return nil, err
			}
			block.Append(stmt)
		default:
			return nil, ikoserr.Newf(ikoserr.InvalidInput, "unexpected block member: %s", functorTag(child))
		}
	}
	return block, nil
}

func loadStatement(e sexpr.Expr, vf *varid.Factory) (Statement, error) {
	if len(e.Args) < 2 {
		return Statement{}, ikoserr.New(ikoserr.InvalidInput, "(stmt ...) needs an id and a kind")
	}
	if e.Args[0].Functor.Kind != sexpr.Index64 {
		return Statement{}, ikoserr.New(ikoserr.InvalidInput, "(stmt ...) id must be an index64 atom")
	}
	id := int(e.Args[0].Functor.I64)
	kindName, ok := stringArg(e, 1)
	if !ok {
		return Statement{}, ikoserr.New(ikoserr.InvalidInput, "(stmt ...) kind must be a string atom")
	}
	kind, ok := stmtKindNames[kindName]
	if !ok {
		return Statement{}, ikoserr.Newf(ikoserr.InvalidInput, "unknown statement kind: %s", kindName)
	}
	stmt := NewStatement(id, kind)

	for _, child := range e.Args[2:] {
		switch functorTag(child) {
		case "result":
			v, ok := stringArg(child, 0)
			if !ok {
				return Statement{}, ikoserr.New(ikoserr.InvalidInput, "(result ...) is missing its variable name")
			}
			stmt.Result = vf.Get(v)
		case "op":
			op, ok := stringArg(child, 0)
			if !ok {
				return Statement{}, ikoserr.New(ikoserr.InvalidInput, "(op ...) is missing its opcode name")
			}
			stmt.Op = op
		case "conv":
			name, ok := stringArg(child, 0)
			if !ok {
				return Statement{}, ikoserr.New(ikoserr.InvalidInput, "(conv ...) is missing its conversion name")
			}
			ck, ok := convKindNames[name]
			if !ok {
				return Statement{}, ikoserr.Newf(ikoserr.InvalidInput, "unknown conversion: %s", name)
			}
			stmt.Conv = ck
		case "operand":
			op, err := loadOperand(child, vf)
			if err != nil {
				return Statement{}, err
			}
			stmt.Operands = append(stmt.Operands, op)
		case "callee":
			callee, ok := stringArg(child, 0)
			if !ok {
				return Statement{}, ikoserr.New(ikoserr.InvalidInput, "(callee ...) is missing its name")
			}
			stmt.Callee = callee
		case "arg":
			op, err := loadOperand(child, vf)
			if err != nil {
				return Statement{}, err
			}
			stmt.Args = append(stmt.Args, op)
		case "size":
			op, err := loadOperand(child, vf)
			if err != nil {
				return Statement{}, err
			}
			stmt.Size = op
		default:
			return Statement{}, ikoserr.Newf(ikoserr.InvalidInput, "unexpected statement member: %s", functorTag(child))
		}
	}
	return stmt, nil
}

// loadOperand reads a (operand (var $x)) / (operand (const $text)) or the
// bare (arg ...)/(size ...) equivalent: the wrapper's single child names
// the operand's shape.
func loadOperand(e sexpr.Expr, vf *varid.Factory) (Operand, error) {
	if len(e.Args) != 1 {
		return Operand{}, ikoserr.Newf(ikoserr.InvalidInput, "%s must wrap exactly one var/const", functorTag(e))
	}
	inner := e.Args[0]
	switch functorTag(inner) {
	case "var":
		name, ok := stringArg(inner, 0)
		if !ok {
			return Operand{}, ikoserr.New(ikoserr.InvalidInput, "(var ...) is missing its name")
		}
		return VarOperand(vf.Get(name)), nil
	case "const":
		text, ok := stringArg(inner, 0)
		if !ok {
			return Operand{}, ikoserr.New(ikoserr.InvalidInput, "(const ...) is missing its literal")
		}
		return ConstOperand(text), nil
	default:
		return Operand{}, ikoserr.Newf(ikoserr.InvalidInput, "expected (var ...) or (const ...), got %s", functorTag(inner))
	}
}

// functorTag reads e's functor as a bare tag name: a string atom without
// its leading '$', the convention every schema node above uses to name
// itself (e.g. "bundle", "function", "stmt").
func functorTag(e sexpr.Expr) string {
	if e.Functor.Kind != sexpr.String {
		return ""
	}
	return e.Functor.Str
}

// stringArg reads the n'th argument (0-indexed, unlike Expr.Arg) as a
// bare string-atom value.
func stringArg(e sexpr.Expr, n int) (string, bool) {
	arg, ok := e.Arg(n + 1)
	if !ok || arg.Functor.Kind != sexpr.String || !arg.IsAtomic() {
		return "", false
	}
	return arg.Functor.Str, true
}

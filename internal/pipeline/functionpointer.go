// internal/pipeline/functionpointer.go
// Function-pointer analysis (spec §4.8, pass 2): a fast, intraprocedural,
// conservative pass whose only job is resolving indirect calls well
// enough for Liveness and other early passes; PointerAnalysis (spec
// §4.9) overwrites its PointerInfo with a deeper bundle-wide result
// before the value analysis runs.
package pipeline

import "ikos/internal/ar"

// PointerInfo maps an indirect call statement's ID to the function
// names it might target.
type PointerInfo struct {
	Candidates map[int][]string
}

// isIndirectCall reports whether stmt is a Call/Invoke through a
// variable rather than a statically-named Callee.
func isIndirectCall(stmt ar.Statement) (varName string, ok bool) {
	if stmt.Kind != ar.Call && stmt.Kind != ar.Invoke {
		return "", false
	}
	if stmt.Callee != "" {
		return "", false
	}
	if len(stmt.Operands) == 0 || stmt.Operands[0].IsConst() {
		return "", false
	}
	return stmt.Operands[0].Var.String(), true
}

// AnalyzeFunctionPointers scans fn for every place a function address is
// assigned to a variable (Assign/Conv from a constant operand, the only
// shape this minimal AR has for "take the address of a function") and
// for every indirect call, reports every candidate assigned to the
// dialed variable anywhere in the function. This is deliberately
// path-insensitive and over-approximate -- precision comes from
// PointerAnalysis, not this pass.
func AnalyzeFunctionPointers(fn *ar.Function) PointerInfo {
	info := PointerInfo{Candidates: map[int][]string{}}
	if fn.CFG == nil {
		return info
	}

	assignedFrom := map[string][]string{}
	for _, b := range fn.CFG.Blocks {
		for _, s := range b.Statements {
			if (s.Kind == ar.Assign || s.Kind == ar.Conv) &&
				s.Result != nil && len(s.Operands) == 1 && s.Operands[0].IsConst() {
				name := s.Result.String()
				assignedFrom[name] = append(assignedFrom[name], s.Operands[0].Const)
			}
		}
	}

	for _, b := range fn.CFG.Blocks {
		for _, s := range b.Statements {
			if v, ok := isIndirectCall(s); ok {
				info.Candidates[s.ID] = assignedFrom[v]
			}
		}
	}
	return info
}

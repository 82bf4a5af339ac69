// Package localdate reports calendar dates read straight off the wall clock.
//
// "Today" for flyer events is a date in the configured timezone. A date taken
// from time.Now() or time.Now().UTC() follows the host's zone instead, which
// shifts expiry by a day around midnight. Convert with In(loc) first:
//
//	today := time.Now().Format(time.DateOnly)         // flagged
//	today := time.Now().In(loc).Format(time.DateOnly) // ok
//
// A //nolint or //nolint:localdate comment on the same or previous line
// suppresses the report.
package localdate

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

const name = "localdate"

// Analyzer flags calendar accessors on an unconverted time.Now().
var Analyzer = &analysis.Analyzer{
	Name:     name,
	Doc:      "reports calendar dates derived from time.Now() without converting to a location with In",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// calendarMethods are the time.Time methods whose result depends on the zone.
var calendarMethods = map[string]bool{
	"Format":       true,
	"AppendFormat": true,
	"Date":         true,
	"Year":         true,
	"Month":        true,
	"Day":          true,
	"Weekday":      true,
	"YearDay":      true,
	"ISOWeek":      true,
}

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.Preorder([]ast.Node{(*ast.SelectorExpr)(nil)}, func(n ast.Node) {
		sel := n.(*ast.SelectorExpr)
		if !calendarMethods[sel.Sel.Name] {
			return
		}
		call, ok := ast.Unparen(sel.X).(*ast.CallExpr)
		if !ok || !isWallClock(pass.TypesInfo, call) {
			return
		}
		if suppressed(pass, sel) {
			return
		}
		pass.Reportf(sel.Sel.Pos(), "calendar date from time.Now(): convert with .In(loc) before calling %s", sel.Sel.Name)
	})

	return nil, nil
}

// isWallClock reports whether call is time.Now(), time.Now().UTC() or time.Now().Local().
func isWallClock(info *types.Info, call *ast.CallExpr) bool {
	if calleeName(info, call) == "time.Now" {
		return true
	}
	switch calleeName(info, call) {
	case "(time.Time).UTC", "(time.Time).Local":
	default:
		return false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	inner, ok := ast.Unparen(sel.X).(*ast.CallExpr)
	return ok && calleeName(info, inner) == "time.Now"
}

func calleeName(info *types.Info, call *ast.CallExpr) string {
	fn, ok := typeutil.Callee(info, call).(*types.Func)
	if !ok {
		return ""
	}
	return fn.FullName()
}

func suppressed(pass *analysis.Pass, node ast.Node) bool {
	pos := pass.Fset.Position(node.Pos())

	for _, f := range pass.Files {
		if pass.Fset.Position(f.Pos()).Filename != pos.Filename {
			continue
		}
		for _, cg := range f.Comments {
			for _, c := range cg.List {
				line := pass.Fset.Position(c.Pos()).Line
				if line != pos.Line && line != pos.Line-1 {
					continue
				}
				text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
				if text == "nolint" || strings.HasPrefix(text, "nolint ") {
					return true
				}
				if linters, ok := strings.CutPrefix(text, "nolint:"); ok {
					list, _, _ := strings.Cut(linters, " ")
					for _, l := range strings.Split(list, ",") {
						if l == name {
							return true
						}
					}
				}
			}
		}
	}
	return false
}

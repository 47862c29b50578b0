package main

import (
	"github.com/flowql/compiler/ast"
	"github.com/flowql/compiler/diagnostics"
)

// statsModuleFixture builds the syntax tree for a small importable
// module:
//
//	def slow_threshold():
//	    return 100
func statsModuleFixture() *ast.Module {
	pos := func(line int) diagnostics.Position {
		return diagnostics.Position{File: "stats.flow", Line: line, Column: 1}
	}
	b := func(line int) ast.Base { return ast.NewBase(pos(line)) }

	fnDef := &ast.FunctionDef{
		Base: b(1),
		Name: "slow_threshold",
		Body: ast.NewSuite(pos(2), []ast.Stmt{
			&ast.Return{Base: b(2), Value: &ast.Number{Base: b(2), NumKind: ast.IntNumber, Int: 100}},
		}),
	}
	suite := ast.NewSuite(pos(1), []ast.Stmt{fnDef})
	return ast.NewModule(pos(1), suite)
}

// fixtureModule builds the syntax tree a parser would hand the
// evaluator for:
//
//	import px
//	from stats import slow_threshold
//	df = px.DataFrame(table='http_events', select=['latency_ms'])
//	df['big'] = df['latency_ms'] > slow_threshold()
//	px.display(df, 'big_requests')
//
// Both import statements carry line 1; the three statements after them
// carry lines 2, 3 and 4.
func fixtureModule() *ast.Module {
	pos := func(line int) diagnostics.Position {
		return diagnostics.Position{File: "demo.flow", Line: line, Column: 1}
	}
	b := func(line int) ast.Base { return ast.NewBase(pos(line)) }

	importPx := &ast.Import{Base: b(1), Alias: ast.Alias{Name: "px"}}
	importStats := &ast.ImportFrom{
		Base:    b(1),
		Module:  "stats",
		Aliases: []ast.Alias{{Name: "slow_threshold"}},
	}

	dataFrameCall := &ast.Call{
		Base: b(2),
		Func: &ast.Attribute{Base: b(2), Value: &ast.Name{Base: b(2), ID: "px"}, Attribute: "DataFrame"},
		Keywords: []ast.Keyword{
			{Name: "table", Value: &ast.Str{Base: b(2), Value: "http_events"}},
			{Name: "select", Value: &ast.List{Base: b(2), Elts: []ast.Expr{
				&ast.Str{Base: b(2), Value: "latency_ms"},
			}}},
		},
	}
	assignDF := &ast.Assign{Base: b(2), Target: &ast.Name{Base: b(2), ID: "df"}, Value: dataFrameCall}

	predicate := &ast.Compare{
		Base: b(3),
		Op:   ">",
		Left: &ast.Subscript{
			Base:      b(3),
			Value:     &ast.Name{Base: b(3), ID: "df"},
			SliceKind: ast.IndexSlice,
			Index:     &ast.Str{Base: b(3), Value: "latency_ms"},
		},
		Comparator: &ast.Call{
			Base: b(3),
			Func: &ast.Name{Base: b(3), ID: "slow_threshold"},
		},
	}
	assignBig := &ast.Assign{
		Base: b(3),
		Target: &ast.Subscript{
			Base:      b(3),
			Value:     &ast.Name{Base: b(3), ID: "df"},
			SliceKind: ast.IndexSlice,
			Index:     &ast.Str{Base: b(3), Value: "big"},
		},
		Value: predicate,
	}

	displayCall := &ast.ExpressionStatement{
		Base: b(4),
		Expr: &ast.Call{
			Base: b(4),
			Func: &ast.Attribute{Base: b(4), Value: &ast.Name{Base: b(4), ID: "px"}, Attribute: "display"},
			Args: []ast.Expr{
				&ast.Name{Base: b(4), ID: "df"},
				&ast.Str{Base: b(4), Value: "big_requests"},
			},
		},
	}

	suite := ast.NewSuite(pos(1), []ast.Stmt{importPx, importStats, assignDF, assignBig, displayCall})
	return ast.NewModule(pos(1), suite)
}

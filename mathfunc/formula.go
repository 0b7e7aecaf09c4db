package mathfunc

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/notargets/gofv/types"
)

// Formula is a function given as text in the coordinates x, y, z and time t.
// Components are separated by top level commas, "^" is accepted for powers and
// "cond ? a : b" selects between values.
type Formula struct {
	source string
	exprs  []*govaluate.EvaluableExpression
}

var (
	scientific = regexp.MustCompile(`\b(\d+\.?\d*|\.\d+)[eE]([+-]?\d+)\b`)
	parameters = map[string]bool{"x": true, "y": true, "z": true, "t": true, "pi": true}
)

func NewFormula(source string) (f *Formula, err error) {
	var (
		parts []string
	)
	if parts, err = splitComponents(source); err != nil {
		return
	}
	f = &Formula{source: source}
	for _, part := range parts {
		var expr *govaluate.EvaluableExpression
		if expr, err = govaluate.NewEvaluableExpressionWithFunctions(normalize(part), formulaFunctions); err != nil {
			err = types.NewConfigurationError("formula %q: %v", part, err)
			return nil, err
		}
		for _, v := range expr.Vars() {
			if !parameters[v] {
				err = types.NewConfigurationError("formula %q: unknown variable %q, use x, y, z, t", part, v)
				return nil, err
			}
		}
		f.exprs = append(f.exprs, expr)
	}
	return
}

func (f *Formula) String() string { return f.source }

func (f *Formula) NumComponents() int { return len(f.exprs) }

func (f *Formula) Eval(x [3]float64, t float64, out []float64) (err error) {
	if len(out) < len(f.exprs) {
		return fmt.Errorf("formula: output holds %d values, need %d", len(out), len(f.exprs))
	}
	params := map[string]interface{}{
		"x": x[0], "y": x[1], "z": x[2], "t": t, "pi": math.Pi,
	}
	for i, expr := range f.exprs {
		var res interface{}
		if res, err = expr.Evaluate(params); err != nil {
			return fmt.Errorf("formula %q: %w", expr.String(), err)
		}
		switch v := res.(type) {
		case float64:
			out[i] = v
		case bool:
			if v {
				out[i] = 1
			} else {
				out[i] = 0
			}
		default:
			return fmt.Errorf("formula %q: non numeric result %v", expr.String(), res)
		}
	}
	return
}

// splitComponents breaks a formula on commas that are not inside a function call
func splitComponents(source string) (parts []string, err error) {
	var (
		depth, start int
	)
	for i, r := range source {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, types.NewConfigurationError("formula %q: unbalanced parentheses", source)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, source[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, types.NewConfigurationError("formula %q: unbalanced parentheses", source)
	}
	parts = append(parts, source[start:])
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if len(parts[i]) == 0 {
			return nil, types.NewConfigurationError("formula %q: empty component %d", source, i)
		}
	}
	return
}

func normalize(expr string) string {
	expr = scientific.ReplaceAllStringFunc(expr, func(lit string) string {
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return lit
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	})
	return strings.ReplaceAll(expr, "^", "**")
}

func floatArgs(name string, n int, args []interface{}) (vals []float64, err error) {
	if len(args) != n {
		return nil, fmt.Errorf("got %d arguments for function '%s', but needs %d", len(args), name, n)
	}
	vals = make([]float64, n)
	for i, a := range args {
		var ok bool
		if vals[i], ok = a.(float64); !ok {
			return nil, fmt.Errorf("argument %d of '%s' is not a number", i, name)
		}
	}
	return
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		vals, err := floatArgs(name, 1, args)
		if err != nil {
			return nil, err
		}
		return fn(vals[0]), nil
	}
}

func binary(name string, fn func(a, b float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		vals, err := floatArgs(name, 2, args)
		if err != nil {
			return nil, err
		}
		return fn(vals[0], vals[1]), nil
	}
}

var formulaFunctions = map[string]govaluate.ExpressionFunction{
	"sqrt":  unary("sqrt", math.Sqrt),
	"exp":   unary("exp", math.Exp),
	"log":   unary("log", math.Log),
	"abs":   unary("abs", math.Abs),
	"sin":   unary("sin", math.Sin),
	"cos":   unary("cos", math.Cos),
	"tan":   unary("tan", math.Tan),
	"tanh":  unary("tanh", math.Tanh),
	"floor": unary("floor", math.Floor),
	"pow":   binary("pow", math.Pow),
	"atan2": binary("atan2", math.Atan2),
	"min":   binary("min", math.Min),
	"max":   binary("max", math.Max),
}

// Package formula evaluates family parameter formulas.
//
// A formula is either the bare name of another parameter or a zygomys Lisp
// expression over parameter names, e.g. "(* w 2)". Each
// evaluation runs in a fresh sandboxed interpreter so results never depend
// on earlier calls.
package formula

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// identPattern matches names that can be bound as interpreter symbols.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Error is a parse or runtime failure in a formula.
type Error struct {
	Expr    string
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("formula %q: line %d: %s", e.Expr, e.Line, e.Message)
	}
	return fmt.Sprintf("formula %q: %s", e.Expr, e.Message)
}

// Evaluator evaluates formulas. It is safe for concurrent use.
type Evaluator struct {
	// Timeout bounds a single evaluation. Zero means EvalTimeout.
	Timeout time.Duration
}

// New creates an Evaluator with the default timeout.
func New() *Evaluator {
	return &Evaluator{Timeout: EvalTimeout}
}

// IsIdentifier reports whether name can appear as a symbol in a formula.
func IsIdentifier(name string) bool {
	return identPattern.MatchString(name)
}

// Evaluate computes expr with vars bound by name. A bare name that cannot
// be bound as a symbol resolves straight from vars.
func (e *Evaluator) Evaluate(expr string, vars map[string]float64) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, &Error{Expr: expr, Message: "empty formula"}
	}
	if IsIdentifier(expr) {
		if _, ok := vars[expr]; !ok {
			return 0, &Error{Expr: expr, Message: "unknown parameter"}
		}
	} else if v, ok := vars[expr]; ok {
		return v, nil
	}

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("formula: panic during evaluation: %v", r)}
			}
		}()
		v, err := evaluate(expr, vars)
		ch <- evalResult{value: v, err: err}
	}()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	return waitWithTimeout(ch, timeout)
}

// References returns the entries of names that expr mentions, sorted. It is
// a lexical scan used for dependency ordering.
func References(expr string, names []string) []string {
	tokens := map[string]bool{}
	for _, tok := range strings.FieldsFunc(expr, func(r rune) bool {
		return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) {
		tokens[tok] = true
	}
	trimmed := strings.TrimSpace(expr)

	var out []string
	for _, n := range names {
		if tokens[n] || n == trimmed {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func evaluate(expr string, vars map[string]float64) (float64, error) {
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	if err := env.LoadString(prelude(vars) + expr); err != nil {
		return 0, parseError(expr, err)
	}
	res, err := env.Run()
	if err != nil {
		return 0, parseError(expr, err)
	}

	switch v := res.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, &Error{Expr: expr, Message: fmt.Sprintf("result is not a number: %s", res.SexpString(nil))}
}

// prelude binds every identifier-safe variable, in name order.
func prelude(vars map[string]float64) string {
	names := make([]string, 0, len(vars))
	for n := range vars {
		if IsIdentifier(n) {
			names = append(names, n)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, n := range names {
		fmt.Fprintf(&b, "(def %s %s)\n", n, literal(vars[n]))
	}
	return b.String()
}

// literal formats v so the reader always sees a float.
func literal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

func parseError(expr string, err error) error {
	msg := strings.TrimSpace(err.Error())
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &Error{Expr: expr, Line: line, Message: strings.TrimSpace(m[2])}
	}
	return &Error{Expr: expr, Message: msg}
}

package job

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"

	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

// RuleVars is the fixed variable set every HCL-configured job's
// shouldRun expression is evaluated against. Unknown-status events are
// already filtered out by the provider/binner, so the expression only
// ever sees clean numbers.
type RuleVars struct {
	Hour                  int
	Minute                int
	WorkSeconds           float64
	MaxContinuousSeconds  float64
	NightWorkSeconds      float64
	DailyMarkerAlreadySet bool
}

func ruleEnv() (*cel.Env, error) {
	return cel.NewEnv(cel.Declarations(
		decls.NewVar("hour", decls.Int),
		decls.NewVar("minute", decls.Int),
		decls.NewVar("workSeconds", decls.Double),
		decls.NewVar("maxContinuousSeconds", decls.Double),
		decls.NewVar("nightWorkSeconds", decls.Double),
		decls.NewVar("dailyMarkerAlreadySet", decls.Bool),
	))
}

// Rule is a compiled CEL "shouldRun" predicate, built once at startup
// from a jobs.hcl expression string.
type Rule struct {
	source  string
	program cel.Program
}

// CompileRule parses and checks a CEL boolean expression against
// RuleVars' variable set.
func CompileRule(expr string) (*Rule, error) {
	env, err := ruleEnv()
	if err != nil {
		return nil, awerrors.Config(fmt.Sprintf("failed to build rule environment: %v", err))
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, awerrors.Config(fmt.Sprintf("rule %q failed to compile: %v", expr, issues.Err()))
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, awerrors.Config(fmt.Sprintf("rule %q failed to build a program: %v", expr, err))
	}

	return &Rule{source: expr, program: prg}, nil
}

// Eval runs the compiled rule against vars, requiring a boolean result.
func (r *Rule) Eval(vars RuleVars) (bool, error) {
	out, _, err := r.program.Eval(map[string]interface{}{
		"hour":                  vars.Hour,
		"minute":                vars.Minute,
		"workSeconds":           vars.WorkSeconds,
		"maxContinuousSeconds":  vars.MaxContinuousSeconds,
		"nightWorkSeconds":      vars.NightWorkSeconds,
		"dailyMarkerAlreadySet": vars.DailyMarkerAlreadySet,
	})
	if err != nil {
		return false, awerrors.Config(fmt.Sprintf("rule %q evaluation failed: %v", r.source, err))
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, awerrors.Config(fmt.Sprintf("rule %q did not evaluate to a boolean", r.source))
	}
	return result, nil
}

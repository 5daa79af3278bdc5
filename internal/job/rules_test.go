package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRuleEvaluatesThreshold(t *testing.T) {
	rule, err := CompileRule("maxContinuousSeconds >= 7200.0")
	require.NoError(t, err)

	ok, err := rule.Eval(RuleVars{MaxContinuousSeconds: 9000})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rule.Eval(RuleVars{MaxContinuousSeconds: 100})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompileRuleCombinesMultipleVars(t *testing.T) {
	rule, err := CompileRule("hour >= 20 && !dailyMarkerAlreadySet")
	require.NoError(t, err)

	ok, err := rule.Eval(RuleVars{Hour: 21, DailyMarkerAlreadySet: false})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rule.Eval(RuleVars{Hour: 21, DailyMarkerAlreadySet: true})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompileRuleRejectsInvalidExpression(t *testing.T) {
	_, err := CompileRule("this is not cel (")
	assert.Error(t, err)
}

func TestCompileRuleRejectsNonBooleanResult(t *testing.T) {
	rule, err := CompileRule("workSeconds")
	require.NoError(t, err)

	_, err = rule.Eval(RuleVars{WorkSeconds: 10})
	assert.Error(t, err)
}

func TestCompileRuleRejectsUnknownVariable(t *testing.T) {
	_, err := CompileRule("unknownVar > 0")
	assert.Error(t, err)
}

package diagnostics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowql/compiler/diagnostics"
)

func TestErrorStringIncludesPosition(t *testing.T) {
	err := diagnostics.NameErrorf(diagnostics.Position{File: "a.flow", Line: 3, Column: 5}, "name '%s' is not defined", "x")
	assert.Equal(t, "a.flow:3:5: NameError: name 'x' is not defined", err.Error())
}

func TestEngineCountsErrors(t *testing.T) {
	e := diagnostics.NewEngine()
	assert.False(t, e.HasErrors())

	e.Report(diagnostics.TypeErrorf(diagnostics.Position{}, "bad"))
	e.Report(diagnostics.TypeErrorf(diagnostics.Position{}, "worse"))

	assert.True(t, e.HasErrors())
	assert.Equal(t, 2, e.ErrorCount())
}

func TestEngineCombinedFoldsDiagnostics(t *testing.T) {
	e := diagnostics.NewEngine()
	e.Report(diagnostics.NameErrorf(diagnostics.Position{}, "one"))
	e.Report(diagnostics.NameErrorf(diagnostics.Position{}, "two"))

	err := e.Combined()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one")
	assert.Contains(t, err.Error(), "two")
}

func TestEngineCombinedNilWhenEmpty(t *testing.T) {
	e := diagnostics.NewEngine()
	assert.NoError(t, e.Combined())
}

package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		expr      string
		component string
		want      bool
	}{
		{`component == "services/api"`, "services/api", true},
		{`component == "services/api"`, "services/web", false},
		{`dir == "services"`, "services/web", true},
		{`dir == "services"`, "libs/web", false},
		{`dir == "."`, "app", true},
		{`name.startsWith("lib")`, "libs/lib1", true},
		{`name.startsWith("lib")`, "libs/util", false},
		{`component.matches("^libs/") && name != "lib3"`, "libs/lib3", false},
		{`component.matches("^libs/") && name != "lib3"`, "libs/lib2", true},
	}

	for _, tt := range tests {
		pred, err := Compile(tt.expr)
		require.NoError(t, err, tt.expr)

		assert.Equal(t, tt.want, pred(tt.component), "%s on %s", tt.expr, tt.component)
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(`component ==`)
	assert.ErrorContains(t, err, "invalid selector")

	_, err = Compile(`unknown_var == "x"`)
	assert.Error(t, err)

	_, err = Compile(`name + "x"`)
	assert.ErrorContains(t, err, "must be a boolean expression")
}

func TestEvaluationErrorDeselects(t *testing.T) {
	pred, err := Compile(`int(name) > 0`)
	require.NoError(t, err)

	assert.False(t, pred("libs/lib"))
	assert.True(t, pred("versions/3"))
}

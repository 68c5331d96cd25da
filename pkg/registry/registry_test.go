package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ContainsActivities(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, id := range []string{ActivityHTTPQuery, ActivityAnswerQuery} {
		act, err := reg.Find(id)
		require.NoError(t, err, id)
		assert.Equal(t, "object", act.InputSchema["type"])
		assert.Contains(t, act.ErrorCodes, "INVALID_INPUT")
	}

	_, err = reg.Find("missing")
	assert.Error(t, err)
}

func TestLoadRegistry_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2","activities":[{"id":"x","taskType":"x"}]}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)

	act, err := reg.Find("x")
	require.NoError(t, err)
	assert.Equal(t, "x", act.TaskType)
}

func TestLoadRegistry_EmptyPathUsesDefault(t *testing.T) {
	reg, err := LoadRegistry("")
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 2)
}

func TestLoadRegistry_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	_, err := LoadRegistry(path)
	assert.Error(t, err)
}

func TestValidate_Default(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	assert.NoError(t, reg.Validate())
}

func TestValidate_Failures(t *testing.T) {
	schema := map[string]interface{}{"type": "object"}
	valid := func(id string) Activity {
		return Activity{ID: id, DisplayName: id, TaskType: id, Timeout: "10s", InputSchema: schema, OutputSchema: schema}
	}

	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"missing id", func(r *ActivityRegistry) { r.Activities[0].ID = "" }, "field: id"},
		{"duplicate id", func(r *ActivityRegistry) { r.Activities[1].ID = "a" }, "duplicate activity ID"},
		{"missing display name", func(r *ActivityRegistry) { r.Activities[0].DisplayName = "" }, "displayName"},
		{"shared task type", func(r *ActivityRegistry) { r.Activities[1].TaskType = "a" }, "share task type"},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, "invalid timeout"},
		{"negative retries", func(r *ActivityRegistry) { r.Activities[0].Retries = -1 }, "negative retries"},
		{"missing schema", func(r *ActivityRegistry) { r.Activities[0].OutputSchema = nil }, "outputSchema"},
		{"bad schema", func(r *ActivityRegistry) {
			r.Activities[0].InputSchema = map[string]interface{}{"type": 42}
		}, "invalid inputSchema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{valid("a"), valid("b")}}
			tt.mutate(reg)

			err := reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

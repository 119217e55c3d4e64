package health

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckWorkflow(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content      string
		wantPassed   bool
		wantContains string
	}{
		"tag filter": {
			content: `name: release
on:
  push:
    tags:
      - "v*"
jobs:
  build:
    runs-on: windows-latest
`,
			wantPassed:   true,
			wantContains: "runs on tag push",
		},
		"bare push event": {
			content:    "on: push\njobs: {}\n",
			wantPassed: true,
		},
		"event list": {
			content:    "on: [push, workflow_dispatch]\n",
			wantPassed: true,
		},
		"push without filters": {
			content:    "on:\n  push:\n",
			wantPassed: true,
		},
		"branches only": {
			content:      "on:\n  push:\n    branches: [main]\n",
			wantContains: "does not run on tag push",
		},
		"branches and tags": {
			content:    "on:\n  push:\n    branches: [main]\n    tags: ['v*']\n",
			wantPassed: true,
		},
		"manual only": {
			content:      "on: workflow_dispatch\n",
			wantContains: "does not run on tag push",
		},
		"invalid yaml": {
			content:      "on: [push\n",
			wantContains: "invalid YAML",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "release.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got := CheckWorkflow(path)
			assert.Equal(t, "Release workflow", got.Name)
			assert.True(t, got.Optional)
			assert.Equal(t, tt.wantPassed, got.Passed, got.Message)
			assert.Contains(t, got.Message, tt.wantContains)
		})
	}
}

func TestCheckWorkflow_Missing(t *testing.T) {
	t.Parallel()

	got := CheckWorkflow(filepath.Join(t.TempDir(), "release.yml"))
	assert.False(t, got.Passed)
	assert.Contains(t, got.Message, "does not exist")
}

package progress_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuniorss/releasekit/internal/progress"
)

var plain = progress.TerminalCapabilities{}

func TestProgressDisplay_StartStage(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		stage        progress.StageInfo
		wantContains []string
		wantErr      bool
	}{
		"first stage": {
			stage:        progress.StageInfo{Name: "validate", Number: 1, TotalStages: 8},
			wantContains: []string{"[1/8]", "Running Validate"},
		},
		"last stage": {
			stage:        progress.StageInfo{Name: "release", Number: 8, TotalStages: 8},
			wantContains: []string{"[8/8]", "Running Release"},
		},
		"empty name": {
			stage:   progress.StageInfo{Number: 1, TotalStages: 8},
			wantErr: true,
		},
		"number out of range": {
			stage:   progress.StageInfo{Name: "push", Number: 9, TotalStages: 8},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			display := progress.NewProgressDisplay(&buf, plain)

			err := display.StartStage(tt.stage)
			if tt.wantErr {
				assert.ErrorIs(t, err, progress.ErrInvalidStage)
				assert.Empty(t, buf.String())
				return
			}

			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestProgressDisplay_Results(t *testing.T) {
	t.Parallel()

	stage := progress.StageInfo{Name: "commit", Number: 4, TotalStages: 8}

	tests := map[string]struct {
		caps   progress.TerminalCapabilities
		finish func(*progress.ProgressDisplay, progress.StageInfo) error
		detail string
		want   string
	}{
		"completed ascii": {
			finish: (*progress.ProgressDisplay).CompleteStage,
			detail: "Release v2.0.0",
			want:   "[OK] [4/8] Commit done (Release v2.0.0)",
		},
		"skipped ascii": {
			finish: (*progress.ProgressDisplay).SkipStage,
			detail: "nothing to commit",
			want:   "[SKIP] [4/8] Commit skipped (nothing to commit)",
		},
		"completed unicode without detail": {
			caps:   progress.TerminalCapabilities{SupportsUnicode: true},
			finish: (*progress.ProgressDisplay).CompleteStage,
			want:   "✓ [4/8] Commit done",
		},
		"failed": {
			finish: func(d *progress.ProgressDisplay, s progress.StageInfo) error {
				return d.FailStage(s, errors.New("exit status 128"))
			},
			want: "[FAIL] [4/8] Commit failed: exit status 128",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			display := progress.NewProgressDisplay(&buf, tt.caps)

			s := stage
			s.Detail = tt.detail
			require.NoError(t, display.StartStage(s))
			require.NoError(t, tt.finish(display, s))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			assert.Equal(t, tt.want, lines[len(lines)-1])
		})
	}
}

func TestProgressDisplay_Color(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	display := progress.NewProgressDisplay(&buf, progress.TerminalCapabilities{SupportsColor: true, SupportsUnicode: true})

	stage := progress.StageInfo{Name: "tag", Number: 6, TotalStages: 8}
	require.NoError(t, display.CompleteStage(stage))
	require.NoError(t, display.FailStage(stage, errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, "\x1b[32m✓")
	assert.Contains(t, out, "\x1b[31m✗")
}

func TestProgressDisplay_TTYSpinnerWithoutTerminal(t *testing.T) {
	t.Parallel()

	// A TTY display writing to a buffer must not hang or panic when the
	// spinner cannot attach to a terminal.
	var buf bytes.Buffer
	display := progress.NewProgressDisplay(&buf, progress.TerminalCapabilities{IsTTY: true, SupportsUnicode: true})

	stage := progress.StageInfo{Name: "push", Number: 7, TotalStages: 8}
	require.NoError(t, display.StartStage(stage))
	require.NoError(t, display.CompleteStage(stage))
	display.StopSpinner()

	assert.Contains(t, buf.String(), "✓ [7/8] Push done")
}

func TestStageStatus_String(t *testing.T) {
	t.Parallel()

	tests := map[progress.StageStatus]string{
		progress.StagePending:    "pending",
		progress.StageInProgress: "in_progress",
		progress.StageCompleted:  "completed",
		progress.StageSkipped:    "skipped",
		progress.StageFailed:     "failed",
		progress.StageStatus(99): "unknown",
	}

	for status, want := range tests {
		assert.Equal(t, want, status.String())
	}
}

package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

func TestSpinnerProgressReporter_Stages(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := newSpinnerProgressReporter(&buf)
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageSubmitting, Message: "Waiting for wallet approval...", Spinner: true})

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageAwaitingConfirmation, Message: "Mining", Spinner: true})
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageConfirmed, Message: "Mined in block 7"})
	assert.False(t, r.spinner.Active())
	assert.Equal(t, usecase.StageConfirmed, r.currentStage)

	require.Len(t, r.stages, 3)
	assert.Equal(t, "completed", r.stages[0].Status)
	assert.Equal(t, "completed", r.stages[1].Status)
	assert.Equal(t, "completed", r.stages[2].Status)
	assert.Equal(t, "Mined in block 7", r.stages[2].Message)
	assert.Contains(t, buf.String(), "✓ Submitting")
	assert.Contains(t, buf.String(), "✓ Confirmed")
}

func TestSpinnerProgressReporter_Failure(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := newSpinnerProgressReporter(&buf)
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageSubmitting, Spinner: true})
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageFailed, Message: "rejected"})

	require.Len(t, r.stages, 2)
	assert.Equal(t, "failed", r.stages[1].Status)
	assert.Contains(t, buf.String(), "✗ Failed")
}

func TestSpinnerProgressReporter_Info(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := newSpinnerProgressReporter(&buf)

	r.Info("hello")
	r.Error("boom")
	assert.Equal(t, "hello\nboom\n", buf.String())
}

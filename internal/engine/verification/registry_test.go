package verification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/questforge-backend/internal/engine/types"
)

type stubStrategy struct {
	result types.VerificationResult
}

func (s *stubStrategy) Verify(ctx context.Context, task types.QuestTask, proof types.VerificationData, user types.User) types.VerificationResult {
	return s.result
}

func TestRegistryResolve(t *testing.T) {
	transaction := &stubStrategy{result: types.Failure(types.CodeTxFailed, "marker")}
	registry := NewRegistry(transaction)

	tests := []struct {
		name        string
		task        types.QuestTask
		expectTx    bool
		expectError bool
	}{
		{
			name:     "on-chain type forces transaction strategy",
			task:     types.QuestTask{TaskType: types.TaskVendorBuy, VerificationMethod: types.VerificationAutomatic},
			expectTx: true,
		},
		{
			name:     "level up is always on-chain",
			task:     types.QuestTask{TaskType: types.TaskVendorLevelUp},
			expectTx: true,
		},
		{
			name: "url submission with automatic method",
			task: types.QuestTask{TaskType: types.TaskURLSubmission, VerificationMethod: types.VerificationAutomatic},
		},
		{
			name: "text submission with empty method",
			task: types.QuestTask{TaskType: types.TaskTextSubmission},
		},
		{
			name:        "submission type cannot opt into blockchain",
			task:        types.QuestTask{TaskType: types.TaskFileUpload, VerificationMethod: types.VerificationBlockchain},
			expectError: true,
		},
		{
			name:        "unknown task type",
			task:        types.QuestTask{TaskType: "poll_vote"},
			expectError: true,
		},
		{
			name:        "unknown verification method",
			task:        types.QuestTask{TaskType: types.TaskURLSubmission, VerificationMethod: "oracle"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := registry.Resolve(tt.task)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			result := strategy.Verify(context.Background(), tt.task, types.VerificationData{}, types.User{})
			if tt.expectTx {
				assert.Equal(t, types.CodeTxFailed, result.Code)
			} else {
				assert.True(t, result.Success)
			}
		})
	}
}

func TestEffectiveMethod(t *testing.T) {
	assert.Equal(t, types.VerificationBlockchain, EffectiveMethod(types.QuestTask{
		TaskType:           types.TaskDeployLock,
		VerificationMethod: types.VerificationAdminReview,
	}))
	assert.Equal(t, types.VerificationAdminReview, EffectiveMethod(types.QuestTask{
		TaskType:           types.TaskFileUpload,
		VerificationMethod: types.VerificationAdminReview,
	}))
}

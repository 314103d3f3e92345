package attestation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/logging"
)

type fakeProgressStore struct {
	applied   bool
	stored    string
	setErr    error
	setCalled bool
}

func (f *fakeProgressStore) GetQuestProgress(ctx context.Context, userID, questID int64) (types.UserQuestProgress, error) {
	return types.UserQuestProgress{}, nil
}

func (f *fakeProgressStore) ListIncomplete(ctx context.Context) ([]types.UserQuestProgress, error) {
	return nil, nil
}

func (f *fakeProgressStore) UpdateProgress(ctx context.Context, userID, questID int64, completedTasks int, isCompleted bool, xpEarned int64) error {
	return nil
}

func (f *fakeProgressStore) SetAttestationUID(ctx context.Context, userID, questID int64, uid string) (bool, string, error) {
	f.setCalled = true
	if f.setErr != nil {
		return false, "", f.setErr
	}
	if f.applied {
		return true, uid, nil
	}
	return false, f.stored, nil
}

func (f *fakeProgressStore) MarkRewardClaimed(ctx context.Context, userID, questID int64) (bool, error) {
	return true, nil
}

type fakeService struct {
	receipt Receipt
	err     error
	calls   int
}

func (f *fakeService) CreateDelegatedAttestation(ctx context.Context, payload Payload, signature string) (Receipt, error) {
	f.calls++
	return f.receipt, f.err
}

func (f *fakeService) BuildScanLink(uid string) string {
	return "https://scan.example/attestation/view/" + uid
}

func TestGateReturnsExistingUIDWithoutService(t *testing.T) {
	store := &fakeProgressStore{}
	service := &fakeService{}
	gate := NewGate(store, service, true, &logging.NoopLogger{})

	progress := types.UserQuestProgress{KeyClaimAttestationUID: "0xuid1"}
	result, err := gate.EnsureAttested(context.Background(), types.User{UserID: 42}, types.Quest{QuestID: 1}, progress, "")

	require.Nil(t, err)
	assert.Equal(t, "0xuid1", result.UID)
	assert.True(t, result.AlreadyExisted)
	assert.Zero(t, service.calls)
	assert.False(t, store.setCalled)
}

func TestGateDisabledPassesThrough(t *testing.T) {
	store := &fakeProgressStore{}
	service := &fakeService{}
	gate := NewGate(store, service, false, &logging.NoopLogger{})

	result, err := gate.EnsureAttested(context.Background(), types.User{UserID: 42}, types.Quest{QuestID: 1}, types.UserQuestProgress{}, "")

	require.Nil(t, err)
	assert.Empty(t, result.UID)
	assert.Zero(t, service.calls)
}

func TestGateRequiresSignature(t *testing.T) {
	gate := NewGate(&fakeProgressStore{}, &fakeService{}, true, &logging.NoopLogger{})

	_, err := gate.EnsureAttested(context.Background(), types.User{UserID: 42}, types.Quest{QuestID: 1}, types.UserQuestProgress{}, "")

	require.NotNil(t, err)
	assert.Equal(t, types.CodeAttestationRequired, err.Code)
	assert.Equal(t, types.MsgAttestationSigRequired, err.Message)
}

func TestGateSurfacesServiceErrorVerbatim(t *testing.T) {
	service := &fakeService{err: errors.New("relayer rejected signature")}
	gate := NewGate(&fakeProgressStore{}, service, true, &logging.NoopLogger{})

	_, err := gate.EnsureAttested(context.Background(), types.User{UserID: 42}, types.Quest{QuestID: 1}, types.UserQuestProgress{}, "0xsig")

	require.NotNil(t, err)
	assert.Equal(t, types.CodeAttestationFailed, err.Code)
	assert.Equal(t, "relayer rejected signature", err.Message)
}

func TestGateStoresNewUID(t *testing.T) {
	store := &fakeProgressStore{applied: true}
	service := &fakeService{receipt: Receipt{UID: "0xuid2"}}
	gate := NewGate(store, service, true, &logging.NoopLogger{})

	result, err := gate.EnsureAttested(context.Background(), types.User{UserID: 42, WalletAddress: "0xab"}, types.Quest{QuestID: 1}, types.UserQuestProgress{}, "0xsig")

	require.Nil(t, err)
	assert.Equal(t, "0xuid2", result.UID)
	assert.False(t, result.AlreadyExisted)
	assert.Contains(t, result.ScanURL, "0xuid2")
	assert.True(t, store.setCalled)
}

func TestGateConcurrentLoserGetsStoredUID(t *testing.T) {
	// The conditional write did not apply: another request landed its UID
	// first, and that one is the record of truth.
	store := &fakeProgressStore{applied: false, stored: "0xwinner"}
	service := &fakeService{receipt: Receipt{UID: "0xloser"}}
	gate := NewGate(store, service, true, &logging.NoopLogger{})

	result, err := gate.EnsureAttested(context.Background(), types.User{UserID: 42}, types.Quest{QuestID: 1}, types.UserQuestProgress{}, "0xsig")

	require.Nil(t, err)
	assert.Equal(t, "0xwinner", result.UID)
	assert.True(t, result.AlreadyExisted)
}

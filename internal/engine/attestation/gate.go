package attestation

import (
	"context"

	"github.com/questforge/questforge-backend/internal/engine/repository"
	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/logging"
)

// Payload is what gets attested: the user completed the quest
type Payload struct {
	Recipient string `json:"recipient"`
	QuestID   int64  `json:"quest_id"`
}

// Receipt is what the delegated-attestation service returns
type Receipt struct {
	UID    string `json:"uid"`
	TxHash string `json:"tx_hash"`
}

// Service submits delegated attestations on the user's behalf
type Service interface {
	CreateDelegatedAttestation(ctx context.Context, payload Payload, signature string) (Receipt, error)
	BuildScanLink(uid string) string
}

// Result of passing the gate
type Result struct {
	UID            string
	ScanURL        string
	AlreadyExisted bool
}

// Gate decides whether a signed attestation is required before a claim or
// quest completion may finalize, and persists the resulting UID exactly once.
type Gate struct {
	progress repository.ProgressRepository
	service  Service
	enabled  bool
	logger   logging.Logger
}

func NewGate(progress repository.ProgressRepository, service Service, enabled bool, logger logging.Logger) *Gate {
	return &Gate{
		progress: progress,
		service:  service,
		enabled:  enabled,
		logger:   logger.With("component", "attestation_gate"),
	}
}

// EnsureAttested enforces the gate for one (user, quest). An existing UID is
// returned verbatim without touching the attestation service. When the
// subsystem is enabled and no UID exists, a signature is mandatory.
func (g *Gate) EnsureAttested(ctx context.Context, user types.User, quest types.Quest, progress types.UserQuestProgress, signature string) (Result, *types.EngineError) {
	if progress.KeyClaimAttestationUID != "" {
		return Result{
			UID:            progress.KeyClaimAttestationUID,
			ScanURL:        g.service.BuildScanLink(progress.KeyClaimAttestationUID),
			AlreadyExisted: true,
		}, nil
	}

	if !g.enabled {
		return Result{}, nil
	}

	if signature == "" {
		return Result{}, types.NewEngineError(types.CodeAttestationRequired, types.MsgAttestationSigRequired)
	}

	receipt, err := g.service.CreateDelegatedAttestation(ctx, Payload{
		Recipient: user.WalletAddress,
		QuestID:   quest.QuestID,
	}, signature)
	if err != nil {
		g.logger.Errorf("Attestation submission failed for user %d quest %d: %v", user.UserID, quest.QuestID, err)
		// Surface the service's error verbatim
		return Result{}, types.NewEngineError(types.CodeAttestationFailed, err.Error())
	}

	applied, storedUID, err := g.progress.SetAttestationUID(ctx, user.UserID, quest.QuestID, receipt.UID)
	if err != nil {
		return Result{}, types.NewEngineError(types.CodeInternal, types.MsgDBOperationFailed)
	}
	if !applied && storedUID != "" {
		// A concurrent duplicate won the write; its UID is the record of truth.
		g.logger.Warnf("Attestation UID already set for user %d quest %d, returning stored value", user.UserID, quest.QuestID)
		return Result{
			UID:            storedUID,
			ScanURL:        g.service.BuildScanLink(storedUID),
			AlreadyExisted: true,
		}, nil
	}

	return Result{
		UID:     receipt.UID,
		ScanURL: g.service.BuildScanLink(receipt.UID),
	}, nil
}

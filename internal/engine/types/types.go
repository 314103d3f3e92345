package types

import (
	"time"

	"github.com/gocql/gocql"
)

// TaskType identifies the kind of proof a quest task requires
type TaskType string

const (
	TaskVendorBuy           TaskType = "vendor_buy"
	TaskVendorSell          TaskType = "vendor_sell"
	TaskVendorLightUp       TaskType = "vendor_light_up"
	TaskVendorLevelUp       TaskType = "vendor_level_up"
	TaskDeployLock          TaskType = "deploy_lock"
	TaskContractInteraction TaskType = "contract_interaction"
	TaskURLSubmission       TaskType = "url_submission"
	TaskTextSubmission      TaskType = "text_submission"
	TaskFileUpload          TaskType = "file_upload"
)

// VerificationMethod is how a task's proof gets checked
type VerificationMethod string

const (
	VerificationBlockchain  VerificationMethod = "blockchain"
	VerificationAutomatic   VerificationMethod = "automatic"
	VerificationAdminReview VerificationMethod = "admin_review"
)

// SubmissionStatus is the lifecycle state of one completion attempt.
// completed is terminal; failed and retry re-enter pending on resubmission.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "pending"
	StatusCompleted SubmissionStatus = "completed"
	StatusFailed    SubmissionStatus = "failed"
	StatusRetry     SubmissionStatus = "retry"
)

// TaskConfig carries the task-subtype parameters set by quest admins
type TaskConfig struct {
	RequiredAmount  string `json:"required_amount,omitempty"`
	RequiredToken   string `json:"required_token,omitempty"`
	TargetStage     int64  `json:"target_stage,omitempty"`
	ContractAddress string `json:"contract_address,omitempty"`
	ContractMethod  string `json:"contract_method,omitempty"`
}

// QuestTask is one verifiable unit of a quest
type QuestTask struct {
	TaskID              int64              `json:"task_id"`
	QuestID             int64              `json:"quest_id"`
	Title               string             `json:"title"`
	TaskType            TaskType           `json:"task_type"`
	VerificationMethod  VerificationMethod `json:"verification_method"`
	TaskConfig          TaskConfig         `json:"task_config"`
	RequiresAdminReview bool               `json:"requires_admin_review"`
	InputRequired       bool               `json:"input_required"`
	XPReward            int64              `json:"xp_reward"`
	CreatedAt           time.Time          `json:"created_at"`
}

// Quest groups tasks and carries optional prerequisite linkage
type Quest struct {
	QuestID                 int64     `json:"quest_id"`
	Title                   string    `json:"title"`
	TaskCount               int       `json:"task_count"`
	RewardAmount            int64     `json:"reward_amount"`
	PrerequisiteQuestID     int64     `json:"prerequisite_quest_id,omitempty"`
	PrerequisiteLockAddress string    `json:"prerequisite_quest_lock_address,omitempty"`
	RequiresPrerequisiteKey bool      `json:"requires_prerequisite_key"`
	CreatedAt               time.Time `json:"created_at"`
}

// VerificationData is the proof submitted by the user plus the facts the
// verifier extracted from the chain. TransactionHash is cleared before
// persistence for task types whose completion is defined by on-chain state
// rather than a specific transaction.
type VerificationData struct {
	TransactionHash  string `json:"transaction_hash,omitempty"`
	EventName        string `json:"event_name,omitempty"`
	BaseTokenAmount  string `json:"base_token_amount,omitempty"`
	QuoteTokenAmount string `json:"quote_token_amount,omitempty"`
	Stage            int64  `json:"stage,omitempty"`
	BlockNumber      uint64 `json:"block_number,omitempty"`
	LogIndex         uint   `json:"log_index,omitempty"`
	SubmissionURL    string `json:"submission_url,omitempty"`
	SubmissionText   string `json:"submission_text,omitempty"`
}

// UserTaskCompletion is one row per (user, task) attempt
type UserTaskCompletion struct {
	CompletionID     gocql.UUID       `json:"completion_id"`
	UserID           int64            `json:"user_id"`
	QuestID          int64            `json:"quest_id"`
	TaskID           int64            `json:"task_id"`
	SubmissionStatus SubmissionStatus `json:"submission_status"`
	VerificationData VerificationData `json:"verification_data"`
	RewardClaimed    bool             `json:"reward_claimed"`
	ReviewedBy       int64            `json:"reviewed_by,omitempty"`
	ReviewedAt       time.Time        `json:"reviewed_at,omitempty"`
	AdminFeedback    string           `json:"admin_feedback,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// UserQuestProgress is the per (user, quest) aggregate. KeyClaimAttestationUID
// is write-once; any retry returns the stored value verbatim.
type UserQuestProgress struct {
	UserID                 int64     `json:"user_id"`
	QuestID                int64     `json:"quest_id"`
	CompletedTasks         int       `json:"completed_tasks"`
	IsCompleted            bool      `json:"is_completed"`
	RewardClaimed          bool      `json:"reward_claimed"`
	XPEarned               int64     `json:"xp_earned"`
	KeyClaimAttestationUID string    `json:"key_claim_attestation_uid,omitempty"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// User is the identity the auth middleware resolves a caller into
type User struct {
	UserID        int64  `json:"user_id"`
	Role          string `json:"role"`
	WalletAddress string `json:"wallet_address,omitempty"`
	APIKey        string `json:"-"`
}

// VerificationMetadata carries the normalized facts a strategy extracted.
// It deliberately excludes the client-submitted hash for task types where
// that value must not be trusted as canonical.
type VerificationMetadata struct {
	EventName        string `json:"event_name,omitempty"`
	BaseTokenAmount  string `json:"base_token_amount,omitempty"`
	QuoteTokenAmount string `json:"quote_token_amount,omitempty"`
	Stage            int64  `json:"stage,omitempty"`
	BlockNumber      uint64 `json:"block_number,omitempty"`
	LogIndex         uint   `json:"log_index,omitempty"`
}

// VerificationResult is the outcome of one strategy invocation
type VerificationResult struct {
	Success  bool                  `json:"success"`
	Code     ErrorCode             `json:"code,omitempty"`
	Error    string                `json:"error,omitempty"`
	Metadata *VerificationMetadata `json:"metadata,omitempty"`
}

// Failure builds a failed result with the given code and message
func Failure(code ErrorCode, message string) VerificationResult {
	return VerificationResult{Success: false, Code: code, Error: message}
}

// Success builds a passing result carrying the extracted metadata
func Succeeded(metadata *VerificationMetadata) VerificationResult {
	return VerificationResult{Success: true, Metadata: metadata}
}

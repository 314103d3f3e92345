package types

// ErrorCode is the machine-readable failure code surfaced to callers.
// Codes map 1:1 to failure points in the verification, prerequisite,
// replay and attestation layers; none are ever swallowed.
type ErrorCode string

const (
	// Verification layer
	CodeTxFetchFailed       ErrorCode = "TX_FETCH_FAILED"
	CodeTxFailed            ErrorCode = "TX_FAILED"
	CodeWrongContract       ErrorCode = "WRONG_CONTRACT"
	CodeSenderMismatch      ErrorCode = "SENDER_MISMATCH"
	CodeEventNotFound       ErrorCode = "EVENT_NOT_FOUND"
	CodeUserMismatch        ErrorCode = "USER_MISMATCH"
	CodeAmountTooLow        ErrorCode = "AMOUNT_TOO_LOW"
	CodeStageTooLow         ErrorCode = "STAGE_TOO_LOW"
	CodeUnsupportedTaskType ErrorCode = "UNSUPPORTED_TASK_TYPE"

	// Prerequisite layer
	CodeMissingCompletion ErrorCode = "MISSING_COMPLETION"
	CodeMissingKey        ErrorCode = "MISSING_KEY"

	// Replay ledger
	CodeReplayRejected ErrorCode = "REPLAY_REJECTED"

	// Attestation layer
	CodeAttestationRequired ErrorCode = "ATTESTATION_REQUIRED"
	CodeAttestationFailed   ErrorCode = "ATTESTATION_FAILED"

	// Request-level failures outside the verification taxonomy
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeAlreadyClaimed ErrorCode = "ALREADY_CLAIMED"
	CodeInvalidInput   ErrorCode = "INVALID_INPUT"
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// PrerequisiteState describes the admission decision for a quest
type PrerequisiteState string

const (
	PrerequisiteNone              PrerequisiteState = "none"
	PrerequisiteOK                PrerequisiteState = "ok"
	PrerequisiteMissingCompletion PrerequisiteState = "missing_completion"
	PrerequisiteMissingKey        PrerequisiteState = "missing_key"
)

// EngineError pairs a machine-readable code with the user-facing message.
// Handlers map codes to HTTP statuses; verification failures stay 400-class.
type EngineError struct {
	Code    ErrorCode
	Message string
}

func (e *EngineError) Error() string {
	return e.Message
}

func NewEngineError(code ErrorCode, message string) *EngineError {
	return &EngineError{Code: code, Message: message}
}

// User-facing error messages. Replay and prerequisite messages are kept
// generic so they do not leak other users' transaction or claim data.
const (
	MsgTransactionAlreadyUsed   = "Transaction already used"
	MsgAttestationSigRequired   = "Attestation signature is required"
	MsgWalletAddressRequired    = "wallet address required"
	MsgKeyVerificationFailed    = "failed to verify key ownership"
	MsgPrerequisiteNotCompleted = "prerequisite quest not completed"
	MsgInvalidRequestBody       = "Invalid request body"
	MsgDBOperationFailed        = "Database operation failed"
	MsgDBRecordNotFound         = "Database record not found"
)

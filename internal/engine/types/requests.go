package types

// CompleteTaskRequest is the proof submission body
type CompleteTaskRequest struct {
	TransactionHash string `json:"transaction_hash,omitempty"`
	SubmissionURL   string `json:"submission_url,omitempty"`
	SubmissionText  string `json:"submission_text,omitempty"`
}

// CompleteTaskResponse is returned for both success and verification failure
type CompleteTaskResponse struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code,omitempty"`
	Error   string    `json:"error,omitempty"`
}

type ClaimRewardRequest struct {
	AttestationSignature string `json:"attestation_signature,omitempty"`
}

type ClaimRewardResponse struct {
	Success            bool      `json:"success"`
	RewardAmount       int64     `json:"reward_amount,omitempty"`
	AttestationUID     string    `json:"attestation_uid,omitempty"`
	AttestationScanURL string    `json:"attestation_scan_url,omitempty"`
	Error              string    `json:"error,omitempty"`
	Code               ErrorCode `json:"code,omitempty"`
}

type CompleteQuestRequest struct {
	AttestationSignature string `json:"attestation_signature,omitempty"`
}

type CompleteQuestResponse struct {
	Success            bool      `json:"success"`
	AttestationUID     string    `json:"attestation_uid,omitempty"`
	AttestationScanURL string    `json:"attestation_scan_url,omitempty"`
	Error              string    `json:"error,omitempty"`
	Code               ErrorCode `json:"code,omitempty"`
}

// AdminReviewRequest is the admin override body
type AdminReviewRequest struct {
	Status   string `json:"status"`
	Feedback string `json:"feedback,omitempty"`
}

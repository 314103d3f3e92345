package queries

const (
	GetQuestProgressQuery = `
		SELECT user_id, quest_id, completed_tasks, is_completed, reward_claimed,
		       xp_earned, key_claim_attestation_uid, updated_at
		FROM questforge.quest_progress
		WHERE user_id = ? AND quest_id = ?`

	// Primary-key UPDATEs are upserts; a first write creates the row without
	// touching columns the SET clause does not name.
	UpdateQuestProgressQuery = `
		UPDATE questforge.quest_progress
		SET completed_tasks = ?, is_completed = ?, xp_earned = ?, updated_at = ?
		WHERE user_id = ? AND quest_id = ?`

	// Write-once: only the first attestation submission lands the UID;
	// concurrent duplicates read back the existing value.
	SetAttestationUIDQuery = `
		UPDATE questforge.quest_progress
		SET key_claim_attestation_uid = ?, updated_at = ?
		WHERE user_id = ? AND quest_id = ?
		IF key_claim_attestation_uid = null`

	ListIncompleteProgressQuery = `
		SELECT user_id, quest_id, completed_tasks, is_completed, reward_claimed,
		       xp_earned, key_claim_attestation_uid, updated_at
		FROM questforge.quest_progress
		WHERE is_completed = false ALLOW FILTERING`

	// reward_claimed is null until first claimed, so the guard is != true
	MarkQuestRewardClaimedQuery = `
		UPDATE questforge.quest_progress
		SET reward_claimed = true, updated_at = ?
		WHERE user_id = ? AND quest_id = ?
		IF reward_claimed != true`
)

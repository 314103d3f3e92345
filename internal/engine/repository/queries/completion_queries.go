package queries

const (
	GetCompletionQuery = `
		SELECT completion_id, user_id, quest_id, task_id, submission_status,
		       verification_data, reward_claimed, reviewed_by, reviewed_at,
		       admin_feedback, created_at, updated_at
		FROM questforge.task_completions
		WHERE user_id = ? AND task_id = ?`

	GetCompletionByIDQuery = `
		SELECT completion_id, user_id, quest_id, task_id, submission_status,
		       verification_data, reward_claimed, reviewed_by, reviewed_at,
		       admin_feedback, created_at, updated_at
		FROM questforge.task_completions
		WHERE completion_id = ? ALLOW FILTERING`

	UpsertCompletionQuery = `
		INSERT INTO questforge.task_completions (
			completion_id, user_id, quest_id, task_id, submission_status,
			verification_data, reward_claimed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	UpdateCompletionStatusQuery = `
		UPDATE questforge.task_completions
		SET submission_status = ?, verification_data = ?, updated_at = ?
		WHERE user_id = ? AND task_id = ?`

	ReviewCompletionQuery = `
		UPDATE questforge.task_completions
		SET submission_status = ?, reviewed_by = ?, reviewed_at = ?, admin_feedback = ?, updated_at = ?
		WHERE user_id = ? AND task_id = ?`

	// Guarded so a double claim loses the race
	MarkCompletionRewardClaimedQuery = `
		UPDATE questforge.task_completions
		SET reward_claimed = true, updated_at = ?
		WHERE user_id = ? AND task_id = ?
		IF reward_claimed = false AND submission_status = 'completed'`

	CountCompletedByQuestQuery = `
		SELECT COUNT(*) FROM questforge.task_completions
		WHERE user_id = ? AND quest_id = ? AND submission_status = 'completed' ALLOW FILTERING`
)

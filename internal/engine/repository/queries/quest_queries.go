package queries

const (
	GetQuestByIDQuery = `
		SELECT quest_id, title, task_count, reward_amount, prerequisite_quest_id,
		       prerequisite_lock_address, requires_prerequisite_key, created_at
		FROM questforge.quests
		WHERE quest_id = ?`

	GetTaskByIDQuery = `
		SELECT task_id, quest_id, title, task_type, verification_method, task_config,
		       requires_admin_review, input_required, xp_reward, created_at
		FROM questforge.quest_tasks
		WHERE task_id = ?`

	GetTasksByQuestIDQuery = `
		SELECT task_id, quest_id, title, task_type, verification_method, task_config,
		       requires_admin_review, input_required, xp_reward, created_at
		FROM questforge.quest_tasks
		WHERE quest_id = ? ALLOW FILTERING`
)

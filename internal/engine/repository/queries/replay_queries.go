package queries

const (
	// The whole replay ledger is this one lightweight transaction. A hash
	// already present means some completion consumed it; the insert does not
	// apply and the claim is rejected.
	ClaimTransactionHashQuery = `
		INSERT INTO questforge.replay_ledger (tx_hash, user_id, task_id, claimed_at)
		VALUES (?, ?, ?, ?)
		IF NOT EXISTS`
)

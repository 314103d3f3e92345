package queries

const (
	GetUserByAPIKeyQuery = `
		SELECT user_id, role, wallet_address, api_key
		FROM questforge.users
		WHERE api_key = ? ALLOW FILTERING`
)

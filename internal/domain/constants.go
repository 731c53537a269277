package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DepositStatusPending  = "pending"
	DepositStatusApproved = "approved"
	DepositStatusRejected = "rejected"

	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusApproved   = "approved"
	WithdrawalStatusRejected   = "rejected"

	InvestmentStatusActive    = "active"
	InvestmentStatusCompleted = "completed"

	TicketStatusOpen   = "open"
	TicketStatusClosed = "closed"

	FeedTableProfiles    = "profiles"
	FeedTableDeposits    = "deposits"
	FeedTableWithdrawals = "withdrawals"
	FeedTableInvestments = "investments"

	FeedOpInsert = "INSERT"
	FeedOpUpdate = "UPDATE"
	FeedOpDelete = "DELETE"
)

package sqlconfig

// Table names shared by the account and transaction stores.
const (
	AccountsTable     = "accounts"
	TransactionsTable = "transactions"
)

// AccountColumns lists the accounts columns in select order.
var AccountColumns = []any{
	"id",
	"owner_id",
	"name",
	"type",
	"sub_type",
	"currency",
	"initial_balance",
	"balance",
	"is_active",
	"created_at",
	"updated_at",
}

// TransactionColumns lists the transactions columns in select order.
var TransactionColumns = []any{
	"id",
	"owner_id",
	"account_id",
	"category_id",
	"amount",
	"transaction_type",
	"transaction_name",
	"transaction_date",
	"created_at",
	"updated_at",
}

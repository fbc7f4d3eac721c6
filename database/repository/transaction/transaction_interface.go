package transactionRepo

import "fleetwatch/models"

// TransactionRepository defines append and listing access to the
// assignment audit log.
type TransactionRepository interface {
	// Create appends one transaction record.
	Create(tx *models.Transaction) error
	// List retrieves transactions matching the filter, newest first,
	// along with the total match count for paging.
	List(filter models.TransactionFilter) ([]models.Transaction, int64, error)
}

package gormpersistence

import "strings"

// isDuplicateEntryError checks the driver error strings for unique
// constraint violations. MySQL is the deployed target; the other
// dialects cover local test setups.
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

package constants

// Notification copy shown after mutating actions
const (
	MsgPromiseAdded   = "Promise added successfully"
	MsgPromiseUpdated = "Promise updated successfully"
	MsgPromiseDeleted = "Promise deleted"
	MsgDataCleared    = "All data cleared"
	MsgSaveFailed     = "Failed to save promise"
	MsgDeleteFailed   = "Failed to delete promise"
	MsgClearFailed    = "Failed to clear data"

	MsgEmptyJournal  = "No promises recorded yet. Press 'a' to record a new commitment someone made to you."
	MsgEmptyFiltered = "No promises match your current filters."
)

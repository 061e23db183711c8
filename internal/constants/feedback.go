package constants

// User-facing outcome messages surfaced after habit operations
const (
	MsgHabitCreated    = "Habit created successfully"
	MsgHabitUpdated    = "Habit updated successfully"
	MsgHabitDeleted    = "Habit deleted successfully"
	MsgHabitNotFound   = "Habit not found"
	MsgHabitCompleted  = "Habit completed!"
	MsgHabitIncomplete = "Habit marked as incomplete"
	MsgHabitInvalid    = "Please enter a habit name"
	MsgHabitRejected   = "Habit not saved"
	MsgStorageFailed   = "Could not save your habits"
	MsgHabitsReloaded  = "Habits refreshed"

	// Descriptions take the habit name
	MsgCompletedDescription  = "You've completed %q for today"
	MsgIncompleteDescription = "You've unmarked %q for today"
)

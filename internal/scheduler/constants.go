package scheduler

// Log messages
const (
	LogMsgJobScheduled = "Job scheduled"
	LogMsgTickSkipped  = "Worker pool busy, tick skipped"
	LogMsgStopped      = "Scheduler stopped"
)

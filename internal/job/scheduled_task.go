package job

import "github.com/astar-gs/groundstation/internal/scheduler"

// ToScheduledTask converts j's absolute start instant into a
// scheduler.ScheduledTask. Unlike a clamp-to-now conversion, a start that
// has already passed is left as-is and rejected by Scheduler.Schedule with
// ErrTaskInPast — the caller reports that as job status Error rather than
// silently firing immediately.
func ToScheduledTask(j Job) scheduler.ScheduledTask {
	return scheduler.ScheduledTask{FireAt: j.Start, Data: j}
}

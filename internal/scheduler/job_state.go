package scheduler

import (
	"sync"
	"time"
)

// jobState impede execuções sobrepostas de um mesmo job e guarda o histórico da última
type jobState struct {
	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastError           string
}

func (j *jobState) tryStart(now time.Time) bool {
	j.syncMutex.Lock()
	defer j.syncMutex.Unlock()

	if j.syncRunning {
		return false
	}
	j.syncRunning = true
	j.lastSyncStartedAt = now
	return true
}

func (j *jobState) finish(now time.Time, err error) {
	j.syncMutex.Lock()
	defer j.syncMutex.Unlock()

	j.syncRunning = false
	j.lastSyncCompletedAt = now
	j.lastError = ""
	if err != nil {
		j.lastError = err.Error()
	}
}

func (j *jobState) status() map[string]any {
	j.syncMutex.Lock()
	defer j.syncMutex.Unlock()

	return map[string]any{
		"running":                j.syncRunning,
		"last_sync_started_at":   j.lastSyncStartedAt,
		"last_sync_completed_at": j.lastSyncCompletedAt,
		"last_error":             j.lastError,
	}
}

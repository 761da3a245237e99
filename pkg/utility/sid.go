package utility

import (
	"sync"

	"github.com/google/uuid"
)

// SessionID identifies one run of the simulator. Everything stamped with the
// same session id was produced by the same process lifetime.
type SessionID = uuid.UUID

var (
	sessionID     SessionID
	sessionIDOnce sync.Once
	sessionIDMu   sync.RWMutex
)

func GetSessionID() SessionID {
	sessionIDOnce.Do(func() {
		sessionID = uuid.Must(uuid.NewV7())
	})

	sessionIDMu.RLock()
	defer sessionIDMu.RUnlock()
	return sessionID
}

func ResetSessionID() SessionID {
	sessionIDMu.Lock()
	defer sessionIDMu.Unlock()

	sessionID = uuid.Must(uuid.NewV7())
	return sessionID
}

// Package testutils provides deterministic generators for HRChat testing.
// These utilities ensure consistent identifiers in test mode while keeping
// production format compatibility.
package testutils

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	idCounter uint64
	idMutex   sync.Mutex
)

// GenerateUUID generates a UUID that is deterministic in test mode but random
// in production. Test-mode UUIDs follow the format
// 00000001-0000-4000-8000-000000000001, incrementing per call.
func GenerateUUID(testMode bool) string {
	if testMode {
		return getDeterministicUUID()
	}
	return uuid.New().String()
}

// ResetCounters resets the deterministic generators. Call between tests that
// assert on generated identifiers.
func ResetCounters() {
	idMutex.Lock()
	defer idMutex.Unlock()
	idCounter = 0
}

func getDeterministicUUID() string {
	idMutex.Lock()
	defer idMutex.Unlock()
	idCounter++
	return fmt.Sprintf("%08d-0000-4000-8000-%012d", idCounter, idCounter)
}

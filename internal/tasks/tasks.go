// Package tasks bootstraps the persistent task store.
package tasks

import (
	"fmt"
	"os"
)

// emptyStore is the fixed empty-state shape: two named ordered task lists.
// Task entry contents are owned by the server, not by the installer.
const emptyStore = "{\"today\": [], \"longterm\": []}\n"

// EnsureStore creates the task store with the empty shape when absent.
// An existing file is never touched, even if malformed; validating it is the
// server's job, and an installer re-run must not lose tasks.
func EnsureStore(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to inspect task store: %w", err)
	}

	if err := os.WriteFile(path, []byte(emptyStore), 0644); err != nil {
		return fmt.Errorf("failed to create task store: %w", err)
	}
	return nil
}

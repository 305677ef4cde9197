package entries

import "fmt"

// Step names the stage of a transition that failed.
type Step string

const (
	StepValidate         Step = "validate"
	StepReadLive         Step = "read-live"
	StepReadBackup       Step = "read-backup"
	StepCheckSubkeys     Step = "check-subkeys"
	StepEnsureBackupRoot Step = "ensure-backup-root"
	StepWriteBackup      Step = "write-backup"
	StepVerifyBackup     Step = "verify-backup"
	StepDeleteLive       Step = "delete-live"
	StepLoadBackup       Step = "load-backup"
	StepWriteLive        Step = "write-live"
	StepDeleteBackup     Step = "delete-backup"
)

// TransitionError reports which step of a hide, restore or delete failed for
// which key. The store error is available through errors.Is/As.
type TransitionError struct {
	Op   string
	Key  string
	Step Step
	Err  error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %q: %s: %v", e.Op, e.Key, e.Step, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

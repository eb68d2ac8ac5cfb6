// filepath: internal/migrator/errors.go
package migrator

import "fmt"

// Steps reported in MigrationError.Step.
const (
	StepStat      = "stat"
	StepOpen      = "open"
	StepBootstrap = "bootstrap"
	StepInspect   = "inspect"
	StepRebuild   = "rebuild"
	StepCopy      = "copy"
	StepSwap      = "swap"
	StepIndex     = "index"
	StepCommit    = "commit"
)

// MigrationError wraps any storage failure raised while migrating a file.
type MigrationError struct {
	Path string // File being migrated
	Step string // Step that failed
	Err  error  // Underlying error
}

// Error implements the error interface
func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration of %s failed during %s: %v", e.Path, e.Step, e.Err)
}

// Unwrap returns the underlying error for error unwrapping
func (e *MigrationError) Unwrap() error {
	return e.Err
}

func newMigrationError(path, step string, err error) *MigrationError {
	return &MigrationError{
		Path: path,
		Step: step,
		Err:  err,
	}
}

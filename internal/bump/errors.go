package bump

import (
	"errors"
	"fmt"
)

// Stage names a step of the repository workflow.
type Stage string

// Workflow stages in execution order.
const (
	StageResolving  Stage = "resolving"
	StageCloning    Stage = "cloning"
	StageCheckout   Stage = "checkout"
	StageScanning   Stage = "scanning"
	StageBranching  Stage = "branching"
	StageCommitting Stage = "committing"
	StagePushing    Stage = "pushing"
	StageCancelled  Stage = "cancelled"
	StageUnexpected Stage = "unexpected"
)

const (
	referenceFailureMessageConstant  = "repository reference could not be resolved"
	cloneFailureMessageConstant      = "repository clone failed"
	checkoutFailureMessageConstant   = "branch checkout failed"
	scanFailureMessageConstant       = "descriptor scan failed"
	branchFailureMessageConstant     = "release branch creation failed"
	commitFailureMessageConstant     = "commit failed"
	pushFailureMessageConstant       = "push failed"
	cancelledMessageConstant         = "repository processing cancelled"
	unexpectedFailureMessageConstant = "repository processing failed unexpectedly"
	workflowErrorTemplateConstant    = "%s: %s: %v"
)

var (
	// ErrReferenceFailure indicates a repository reference that could not be resolved.
	ErrReferenceFailure = errors.New(referenceFailureMessageConstant)
	// ErrCloneFailure indicates the repository could not be cloned.
	ErrCloneFailure = errors.New(cloneFailureMessageConstant)
	// ErrCheckoutFailure indicates the requested branch could not be checked out.
	ErrCheckoutFailure = errors.New(checkoutFailureMessageConstant)
	// ErrScanFailure indicates the clone could not be searched for descriptors.
	ErrScanFailure = errors.New(scanFailureMessageConstant)
	// ErrBranchFailure indicates the release branch could not be created.
	ErrBranchFailure = errors.New(branchFailureMessageConstant)
	// ErrCommitFailure indicates the descriptor changes could not be committed.
	ErrCommitFailure = errors.New(commitFailureMessageConstant)
	// ErrPushFailure indicates the release branch could not be pushed.
	ErrPushFailure = errors.New(pushFailureMessageConstant)
	// ErrCancelled indicates processing stopped because the context was done.
	ErrCancelled = errors.New(cancelledMessageConstant)
	// ErrUnexpectedFailure indicates a panic recovered while processing a repository.
	ErrUnexpectedFailure = errors.New(unexpectedFailureMessageConstant)
)

var stageSentinels = map[Stage]error{
	StageResolving:  ErrReferenceFailure,
	StageCloning:    ErrCloneFailure,
	StageCheckout:   ErrCheckoutFailure,
	StageScanning:   ErrScanFailure,
	StageBranching:  ErrBranchFailure,
	StageCommitting: ErrCommitFailure,
	StagePushing:    ErrPushFailure,
	StageCancelled:  ErrCancelled,
	StageUnexpected: ErrUnexpectedFailure,
}

// WorkflowError records the stage at which a repository failed. It matches both
// the stage sentinel and its cause with errors.Is.
type WorkflowError struct {
	Stage          Stage
	RepositoryName string
	Cause          error
}

// Error describes the failure.
func (workflowError WorkflowError) Error() string {
	return fmt.Sprintf(workflowErrorTemplateConstant, workflowError.RepositoryName, workflowError.sentinel(), workflowError.Cause)
}

// Unwrap exposes the cause.
func (workflowError WorkflowError) Unwrap() error {
	return workflowError.Cause
}

// Is reports whether target is the sentinel of the failed stage.
func (workflowError WorkflowError) Is(target error) bool {
	return target == workflowError.sentinel()
}

func (workflowError WorkflowError) sentinel() error {
	if sentinel, known := stageSentinels[workflowError.Stage]; known {
		return sentinel
	}
	return ErrUnexpectedFailure
}

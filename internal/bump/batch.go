package bump

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/pombump/internal/gitrepo"
	"github.com/temirov/pombump/internal/repos/shared"
)

const (
	processorMissingMessageConstant        = "repository processor not configured"
	panicCauseTemplateConstant             = "panic: %v"
	referenceFailedMessageTemplateConstant = "Repository reference %q failed: %v\n"
	batchSummaryMessageTemplateConstant    = "Processed %d repositories: %d updated, %d failed\n"
	logMessageBatchStartedConstant         = "batch started"
	logMessageBatchFinishedConstant        = "batch finished"
	logMessageRepositoryPanickedConstant   = "repository processing panicked"
	logMessageBatchCancelledConstant       = "batch cancelled"
	logFieldReferenceCountConstant         = "reference_count"
	logFieldReferenceConstant              = "reference"
	logFieldSucceededConstant              = "succeeded"
	logFieldFailedConstant                 = "failed"
)

// ErrRepositoryProcessorNotConfigured indicates the batch runner was constructed without a processor.
var ErrRepositoryProcessorNotConfigured = errors.New(processorMissingMessageConstant)

// RepositoryProcessor processes a single resolved repository reference.
type RepositoryProcessor interface {
	Process(executionContext context.Context, reference gitrepo.RepositoryReference, options WorkflowOptions) WorkflowResult
}

// BatchDependencies enumerates collaborators required by the batch runner.
type BatchDependencies struct {
	Processor RepositoryProcessor
	Reporter  shared.Reporter
	Logger    *zap.Logger
}

// BatchOptions configure a batch run. References are processed in order.
type BatchOptions struct {
	References []string
	Workflow   WorkflowOptions
}

// BatchRunner processes repository references sequentially, isolating failures.
type BatchRunner struct {
	processor RepositoryProcessor
	reporter  shared.Reporter
	logger    *zap.Logger
}

// NewBatchRunner constructs a BatchRunner.
func NewBatchRunner(batchDependencies BatchDependencies) (*BatchRunner, error) {
	if batchDependencies.Processor == nil {
		return nil, ErrRepositoryProcessorNotConfigured
	}
	runner := &BatchRunner{
		processor: batchDependencies.Processor,
		reporter:  batchDependencies.Reporter,
		logger:    batchDependencies.Logger,
	}
	if runner.reporter == nil {
		runner.reporter = shared.NewDiscardReporter()
	}
	if runner.logger == nil {
		runner.logger = zap.NewNop()
	}
	return runner, nil
}

// Run attempts every reference and returns their results in input order. Once the
// context is done, the remaining references are recorded as cancelled without being cloned.
func (runner *BatchRunner) Run(executionContext context.Context, options BatchOptions) BatchReport {
	report := BatchReport{Results: make([]WorkflowResult, 0, len(options.References))}
	runner.logger.Info(logMessageBatchStartedConstant, zap.Int(logFieldReferenceCountConstant, len(options.References)))

	for _, rawReference := range options.References {
		if contextError := executionContext.Err(); contextError != nil {
			runner.logger.Warn(logMessageBatchCancelledConstant, zap.String(logFieldReferenceConstant, rawReference), zap.Error(contextError))
			report.Results = append(report.Results, runner.failedReference(rawReference, StageCancelled, contextError))
			continue
		}

		reference, resolveError := gitrepo.ResolveRepositoryReference(rawReference)
		if resolveError != nil {
			report.Results = append(report.Results, runner.failedReference(rawReference, StageResolving, resolveError))
			continue
		}

		report.Results = append(report.Results, runner.processIsolated(executionContext, reference, options.Workflow))
	}

	runner.reporter.Printf(batchSummaryMessageTemplateConstant, len(report.Results), report.Updated(), report.Failed())
	runner.reporter.Printf("%s\n", RenderSummaryTable(report))
	runner.logger.Info(
		logMessageBatchFinishedConstant,
		zap.Int(logFieldReferenceCountConstant, len(report.Results)),
		zap.Int(logFieldSucceededConstant, report.Succeeded()),
		zap.Int(logFieldFailedConstant, report.Failed()),
	)
	return report
}

func (runner *BatchRunner) processIsolated(executionContext context.Context, reference gitrepo.RepositoryReference, options WorkflowOptions) (result WorkflowResult) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		panicCause := fmt.Errorf(panicCauseTemplateConstant, recovered)
		runner.logger.Error(logMessageRepositoryPanickedConstant, zap.String(logFieldRepositoryConstant, reference.Name), zap.Error(panicCause))
		result = WorkflowResult{
			RepositoryName: reference.Name,
			RawReference:   reference.RawURL,
			CloneURL:       reference.CloneURL,
			Branch:         reference.Branch,
			DryRun:         options.DryRun,
			FailedStage:    StageUnexpected,
			Failure:        WorkflowError{Stage: StageUnexpected, RepositoryName: reference.Name, Cause: panicCause},
		}
		runner.reporter.Printf(repositoryFailedMessageTemplateConstant, reference.Name, result.Failure)
	}()

	return runner.processor.Process(executionContext, reference, options)
}

func (runner *BatchRunner) failedReference(rawReference string, stage Stage, cause error) WorkflowResult {
	failure := WorkflowError{Stage: stage, RepositoryName: rawReference, Cause: cause}
	runner.reporter.Printf(referenceFailedMessageTemplateConstant, rawReference, failure)
	return WorkflowResult{
		RepositoryName: rawReference,
		RawReference:   rawReference,
		FailedStage:    stage,
		Failure:        failure,
	}
}

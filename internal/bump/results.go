package bump

// DescriptorOutcome records what happened to one descriptor.
type DescriptorOutcome struct {
	Path       string
	OldVersion string
	NewVersion string
	// Updated is set once the new version has been written.
	Updated bool
	// Skipped is set when the descriptor has no version field.
	Skipped bool
	Failure error
}

// WorkflowResult summarises one repository. OldVersion and NewVersion belong to the
// last descriptor that was bumped.
type WorkflowResult struct {
	RepositoryName string
	RawReference   string
	CloneURL       string
	Branch         string
	OldVersion     string
	NewVersion     string
	Updated        bool
	ReleaseBranch  string
	Descriptors    []DescriptorOutcome
	FailedStage    Stage
	Failure        error
	DryRun         bool
}

// Succeeded reports whether the repository completed without a stage failure.
func (result WorkflowResult) Succeeded() bool {
	return result.Failure == nil
}

// BatchReport collects the results of a batch in input order.
type BatchReport struct {
	Results []WorkflowResult
}

// Succeeded counts repositories that completed without a stage failure.
func (report BatchReport) Succeeded() int {
	succeededCount := 0
	for _, result := range report.Results {
		if result.Succeeded() {
			succeededCount++
		}
	}
	return succeededCount
}

// Failed counts repositories that stopped at a failed stage.
func (report BatchReport) Failed() int {
	return len(report.Results) - report.Succeeded()
}

// Updated counts repositories whose release branch was pushed.
func (report BatchReport) Updated() int {
	updatedCount := 0
	for _, result := range report.Results {
		if result.Updated {
			updatedCount++
		}
	}
	return updatedCount
}

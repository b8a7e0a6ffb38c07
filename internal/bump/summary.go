package bump

import (
	"github.com/gosuri/uitable"
)

const (
	summaryMaxColumnWidthConstant     = 60
	summaryRepositoryHeaderConstant   = "REPOSITORY"
	summaryBranchHeaderConstant       = "BRANCH"
	summaryOldVersionHeaderConstant   = "OLD"
	summaryNewVersionHeaderConstant   = "NEW"
	summaryReleaseHeaderConstant      = "RELEASE BRANCH"
	summaryStatusHeaderConstant       = "STATUS"
	summaryStatusUpdatedConstant      = "updated"
	summaryStatusPlannedConstant      = "planned"
	summaryStatusUnchangedConstant    = "unchanged"
	summaryStatusFailedPrefixConstant = "failed: "
	summaryEmptyCellConstant          = "-"
)

// RenderSummaryTable formats one row per repository result.
func RenderSummaryTable(report BatchReport) string {
	table := uitable.New()
	table.MaxColWidth = summaryMaxColumnWidthConstant
	table.Wrap = true
	table.AddRow(
		summaryRepositoryHeaderConstant,
		summaryBranchHeaderConstant,
		summaryOldVersionHeaderConstant,
		summaryNewVersionHeaderConstant,
		summaryReleaseHeaderConstant,
		summaryStatusHeaderConstant,
	)
	for _, result := range report.Results {
		table.AddRow(
			summaryCell(result.RepositoryName),
			summaryCell(result.Branch),
			summaryCell(result.OldVersion),
			summaryCell(result.NewVersion),
			summaryCell(result.ReleaseBranch),
			summaryStatus(result),
		)
	}
	return table.String()
}

func summaryStatus(result WorkflowResult) string {
	switch {
	case result.Failure != nil:
		return summaryStatusFailedPrefixConstant + string(result.FailedStage)
	case result.Updated:
		return summaryStatusUpdatedConstant
	case result.DryRun && len(result.ReleaseBranch) > 0:
		return summaryStatusPlannedConstant
	default:
		return summaryStatusUnchangedConstant
	}
}

func summaryCell(value string) string {
	if len(value) == 0 {
		return summaryEmptyCellConstant
	}
	return value
}

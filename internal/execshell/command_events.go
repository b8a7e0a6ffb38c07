package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports a command that produced no result at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// commandEventObservers fans a lifecycle event out to every registered observer.
type commandEventObservers []CommandEventObserver

func newCommandEventObservers(candidates []CommandEventObserver) commandEventObservers {
	observers := make(commandEventObservers, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate != nil {
			observers = append(observers, candidate)
		}
	}
	return observers
}

func (observers commandEventObservers) started(command ShellCommand) {
	for _, observer := range observers {
		observer.CommandStarted(command)
	}
}

func (observers commandEventObservers) completed(command ShellCommand, result ExecutionResult) {
	for _, observer := range observers {
		observer.CommandCompleted(command, result)
	}
}

func (observers commandEventObservers) failed(command ShellCommand, failure error) {
	for _, observer := range observers {
		observer.CommandExecutionFailed(command, failure)
	}
}

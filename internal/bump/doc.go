// Package bump clones repositories, raises the patch version of every build
// descriptor they contain, and publishes the change on a dated release branch.
//
// Workflow processes a single repository through a fixed sequence of stages
// and always returns a WorkflowResult; failures are recorded on the result as
// a WorkflowError instead of escaping. BatchRunner drives Workflow across an
// ordered list of repository references, isolating each repository from the
// failures of the others.
package bump

package shared

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reporter emits user-facing status lines to an underlying sink.
type Reporter interface {
	Printf(format string, args ...any)
}

type flusher interface {
	Flush() error
}

type writerReporter struct {
	writer io.Writer
	mutex  *sync.Mutex
}

// NewWriterReporter constructs a Reporter that writes to writer. Buffered writers are
// flushed after every line so progress appears while repositories are processed.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil || writer == io.Discard {
		writer = os.Stdout
	}
	return writerReporter{writer: writer, mutex: &sync.Mutex{}}
}

// NewDiscardReporter constructs a Reporter that drops every line.
func NewDiscardReporter() Reporter {
	return writerReporter{}
}

func (reporter writerReporter) Printf(format string, args ...any) {
	if reporter.writer == nil {
		return
	}
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()

	if _, writeError := fmt.Fprintf(reporter.writer, format, args...); writeError != nil {
		return
	}
	if bufferedWriter, buffered := reporter.writer.(flusher); buffered {
		_ = bufferedWriter.Flush()
	}
}

package envdiff

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/pombump/internal/repos/filesystem"
)

const (
	commentPrefixConstant                = "#"
	assignmentSeparatorConstant          = "="
	assignmentPartCountConstant          = 2
	environmentReadMessageConstant       = "unable to read environment file"
	environmentReadErrorTemplateConstant = "%w %s: %v"
)

// ErrEnvironmentFileUnreadable indicates an environment file that could not be read.
var ErrEnvironmentFileUnreadable = errors.New(environmentReadMessageConstant)

// Entry is a single variable assignment.
type Entry struct {
	Key   string
	Value string
}

// OrderedEnvironment maps keys to values and remembers the position each key first appeared at.
type OrderedEnvironment struct {
	keys   []string
	values map[string]string
}

// NewOrderedEnvironment constructs an OrderedEnvironment from entries applied in order.
func NewOrderedEnvironment(entries ...Entry) OrderedEnvironment {
	environment := OrderedEnvironment{values: make(map[string]string, len(entries))}
	for _, entry := range entries {
		environment.Set(entry.Key, entry.Value)
	}
	return environment
}

// Set assigns value to key. A repeated key keeps its first position and takes the new value.
func (environment *OrderedEnvironment) Set(key string, value string) {
	if environment.values == nil {
		environment.values = map[string]string{}
	}
	if _, exists := environment.values[key]; !exists {
		environment.keys = append(environment.keys, key)
	}
	environment.values[key] = value
}

// Get returns the value assigned to key.
func (environment OrderedEnvironment) Get(key string) (string, bool) {
	value, exists := environment.values[key]
	return value, exists
}

// Len returns the number of distinct keys.
func (environment OrderedEnvironment) Len() int {
	return len(environment.keys)
}

// Entries returns the assignments in key order.
func (environment OrderedEnvironment) Entries() []Entry {
	entries := make([]Entry, 0, len(environment.keys))
	for _, key := range environment.keys {
		entries = append(entries, Entry{Key: key, Value: environment.values[key]})
	}
	return entries
}

// ParseEnvironment reads KEY=VALUE lines. Blank lines, lines starting with '#', and lines
// without '=' are ignored; the first '=' separates key from value and both are trimmed.
func ParseEnvironment(reader io.Reader) (OrderedEnvironment, error) {
	environment := NewOrderedEnvironment()
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, commentPrefixConstant) {
			continue
		}
		assignmentParts := strings.SplitN(line, assignmentSeparatorConstant, assignmentPartCountConstant)
		if len(assignmentParts) != assignmentPartCountConstant {
			continue
		}
		environment.Set(strings.TrimSpace(assignmentParts[0]), strings.TrimSpace(assignmentParts[1]))
	}
	if scanError := scanner.Err(); scanError != nil {
		return OrderedEnvironment{}, scanError
	}
	return environment, nil
}

// Loader reads environment files from a filesystem.
type Loader struct {
	fileSystem afero.Fs
}

// NewLoader constructs a Loader. A nil filesystem selects the operating system filesystem.
func NewLoader(fileSystem afero.Fs) Loader {
	return Loader{fileSystem: filesystem.Resolve(fileSystem)}
}

// LoadEnvironmentFile parses the file at filePath.
func (loader Loader) LoadEnvironmentFile(filePath string) (OrderedEnvironment, error) {
	content, readError := afero.ReadFile(loader.fileSystem, filePath)
	if readError != nil {
		return OrderedEnvironment{}, fmt.Errorf(environmentReadErrorTemplateConstant, ErrEnvironmentFileUnreadable, filePath, readError)
	}
	environment, parseError := ParseEnvironment(bytes.NewReader(content))
	if parseError != nil {
		return OrderedEnvironment{}, fmt.Errorf(environmentReadErrorTemplateConstant, ErrEnvironmentFileUnreadable, filePath, parseError)
	}
	return environment, nil
}

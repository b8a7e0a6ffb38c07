package placeholders

import (
	"errors"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

const (
	documentParseMessageConstant       = "unable to parse yaml document"
	documentParseErrorTemplateConstant = "%w: %v"
	pathSeparatorConstant              = "."
	sequenceIndexTemplateConstant      = "%s[%d]"
	mergeKeyTagConstant                = "!!merge"
	stringTagConstant                  = "!!str"
	placeholderNameGroupConstant       = 1
	placeholderDefaultGroupConstant    = 2
)

var placeholderPattern = regexp.MustCompile(`\$\{([A-Z0-9_]+)(?::([^}]+))?\}`)

// ErrDocumentParse indicates YAML content that could not be parsed.
var ErrDocumentParse = errors.New(documentParseMessageConstant)

// Placeholder is one environment reference found in a document.
type Placeholder struct {
	Name string
	// Path locates the value, e.g. spring.datasource.url or servers[1].host.
	Path       string
	Default    string
	HasDefault bool
}

// Extract walks a YAML document and returns its placeholders. Each name appears once,
// at the position it was first seen, carrying the data of its last occurrence.
func Extract(document []byte) ([]Placeholder, error) {
	var root yaml.Node
	if unmarshalError := yaml.Unmarshal(document, &root); unmarshalError != nil {
		return nil, fmt.Errorf(documentParseErrorTemplateConstant, ErrDocumentParse, unmarshalError)
	}

	collector := placeholderCollector{positions: map[string]int{}}
	collector.walk(&root, "")
	return collector.placeholders, nil
}

type placeholderCollector struct {
	placeholders []Placeholder
	positions    map[string]int
}

func (collector *placeholderCollector) walk(node *yaml.Node, currentPath string) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			collector.walk(child, currentPath)
		}
	case yaml.MappingNode:
		for pairIndex := 0; pairIndex+1 < len(node.Content); pairIndex += 2 {
			keyNode, valueNode := node.Content[pairIndex], node.Content[pairIndex+1]
			if keyNode.ShortTag() == mergeKeyTagConstant {
				collector.walkMerge(valueNode, currentPath)
				continue
			}
			collector.walk(valueNode, joinPath(currentPath, keyNode.Value))
		}
	case yaml.SequenceNode:
		for itemIndex, child := range node.Content {
			collector.walk(child, fmt.Sprintf(sequenceIndexTemplateConstant, currentPath, itemIndex))
		}
	case yaml.AliasNode:
		collector.walk(node.Alias, currentPath)
	case yaml.ScalarNode:
		if node.ShortTag() == stringTagConstant {
			collector.collect(node.Value, currentPath)
		}
	}
}

// walkMerge folds the mappings of a "<<" key into the enclosing path.
func (collector *placeholderCollector) walkMerge(node *yaml.Node, currentPath string) {
	if node.Kind == yaml.SequenceNode {
		for _, child := range node.Content {
			collector.walk(child, currentPath)
		}
		return
	}
	collector.walk(node, currentPath)
}

func (collector *placeholderCollector) collect(value string, currentPath string) {
	for _, match := range placeholderPattern.FindAllStringSubmatch(value, -1) {
		placeholder := Placeholder{
			Name:       match[placeholderNameGroupConstant],
			Path:       currentPath,
			Default:    match[placeholderDefaultGroupConstant],
			HasDefault: len(match[placeholderDefaultGroupConstant]) > 0,
		}
		if position, seen := collector.positions[placeholder.Name]; seen {
			collector.placeholders[position] = placeholder
			continue
		}
		collector.positions[placeholder.Name] = len(collector.placeholders)
		collector.placeholders = append(collector.placeholders, placeholder)
	}
}

func joinPath(parentPath string, key string) string {
	if len(parentPath) == 0 {
		return key
	}
	return parentPath + pathSeparatorConstant + key
}

// flattenScalars returns every key and scalar value of a document, in document order.
func flattenScalars(node *yaml.Node, visited map[*yaml.Node]bool, values []string) []string {
	if node == nil || visited[node] {
		return values
	}
	visited[node] = true
	switch node.Kind {
	case yaml.ScalarNode:
		return append(values, node.Value)
	case yaml.AliasNode:
		return flattenScalars(node.Alias, visited, values)
	default:
		for _, child := range node.Content {
			values = flattenScalars(child, visited, values)
		}
		return values
	}
}

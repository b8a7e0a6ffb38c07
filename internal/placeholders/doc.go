// Package placeholders extracts ${NAME} and ${NAME:default} references from a YAML
// application file and checks which environment files mention each name.
package placeholders

// Package gitrepo interprets repository references of the form
// <clone-url>[@branch] or <clone-url>[#branch] into clone coordinates.
package gitrepo

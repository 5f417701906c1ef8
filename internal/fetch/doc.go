// Package fetch downloads remote cover art.
//
// The Client caches responses per run, so a cover URL shared by several
// albums is requested only once. Proxy selection follows the application
// settings: direct, system environment, or a manually configured address.
package fetch

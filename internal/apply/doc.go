// Package apply carries matched metadata onto disk: writing embedded tags
// through the tagio backends and renaming files from metadata templates.
// Both operations honor dry mode, reporting what they would do instead of
// doing it.
package apply

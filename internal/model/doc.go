// Package model defines the core data structures shared across tagmatch.
//
// # Record
//
// Record holds one track's metadata fields, corresponding to one row of a
// metadata configuration file:
//
//	rec := model.NewRecord("Some Title")
//	rec.SetField("track", "3")
//	rec.SetField("duration", "4:05")
//
// Records carry a mutable file back-reference set exactly once when the
// match engine pairs the record with a physical audio file; a second
// assignment returns model.ErrFileAlreadyAssigned.
//
// # RecordSet
//
// RecordSet is an ordered collection of records. A set flagged Shared maps
// to the file list by position instead of by content matching.
package model

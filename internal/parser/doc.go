// Package parser reads metadata configuration files in several formats and
// writes the resolved listing back out.
//
// Input formats are attempted in ranked order when the mode is "any":
// CSV (header row), TAB ("[track] title [duration]" lines), YAML/JSON object
// lists, and LIST (one field per line in fixed intervals). The ranking puts
// the strictest format first and the loosest last, so ambiguous content lands
// on the parser most likely to have produced it.
//
// SaveRecordSet renders the resolved records as YAML, JSON, CSV or aligned
// tab columns, sorted by track number when available.
package parser

package model

// RecordSet is an ordered collection of records, one per audio file once
// merged. The Shared flag marks a set whose records map to files by position
// (index i of the file list is index i of the records), so no content-based
// matching is needed.
type RecordSet struct {
	Records []*Record

	// Shared means every record maps one-to-one by position against the
	// ordered file list. Invariant: len(Records) equals the file count.
	Shared bool
}

// NewRecordSet creates an empty record set.
func NewRecordSet(shared bool) *RecordSet {
	return &RecordSet{Shared: shared}
}

// Len returns the number of records.
func (s *RecordSet) Len() int {
	return len(s.Records)
}

// Append adds records to the set.
func (s *RecordSet) Append(records ...*Record) {
	s.Records = append(s.Records, records...)
}

// Titles returns every record title, in order.
func (s *RecordSet) Titles() []string {
	titles := make([]string, len(s.Records))
	for i, r := range s.Records {
		titles[i] = r.Title
	}
	return titles
}

// Unassigned returns the records not yet claimed by a file.
func (s *RecordSet) Unassigned() []*Record {
	var out []*Record
	for _, r := range s.Records {
		if !r.Assigned() {
			out = append(out, r)
		}
	}
	return out
}

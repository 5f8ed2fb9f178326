package schema

// MergeSummary counts what a merge run did.
type MergeSummary struct {
	StorePath     string `json:"store_path"`
	PriorRecords  int    `json:"prior_records"`
	FilesScanned  int    `json:"files_scanned"`
	FilesSkipped  int    `json:"files_skipped"`
	RecordsRead   int    `json:"records_read"`
	Inserted      int    `json:"inserted"`
	Replaced      int    `json:"replaced"`
	TotalWritten  int    `json:"total_written"`
	StoreWasReset bool   `json:"store_was_reset"`
	DryRun        bool   `json:"dry_run"`
}

// Match is the outcome of attributing one record to a roster identity.
type Match struct {
	Identity  string    `json:"identity"`
	Weight    int       `json:"weight"`
	Key       string    `json:"key"`
	Kind      MatchKind `json:"kind"`
	Candidate string    `json:"candidate"`
}

// Found reports whether the match carries an identity.
func (m Match) Found() bool {
	return m.Identity != ""
}

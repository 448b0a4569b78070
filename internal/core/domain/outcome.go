package domain

// IngestResult is the outcome of ingesting a single document.
type IngestResult struct {
	// DocumentID is the id of the document as supplied.
	DocumentID string

	// Chunks is the number of chunks indexed for the document.
	Chunks int

	// Err is the typed failure, nil on success.
	Err error
}

// OK reports whether the document was indexed.
func (r IngestResult) OK() bool {
	return r.Err == nil
}

// IngestOutcome collects per-document results of a batch ingestion.
type IngestOutcome struct {
	Results []IngestResult
}

// Succeeded returns the number of documents indexed.
func (o *IngestOutcome) Succeeded() int {
	n := 0
	for _, r := range o.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failures returns the failed results in input order.
func (o *IngestOutcome) Failures() []IngestResult {
	var failed []IngestResult
	for _, r := range o.Results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// BatchItem is the outcome of researching one query in a batch.
type BatchItem struct {
	// Query is the query text as supplied.
	Query string

	// Report is set on success.
	Report *ResearchReport

	// Err is the typed failure, nil on success.
	Err error
}

// OK reports whether the query produced a report.
func (i BatchItem) OK() bool {
	return i.Err == nil && i.Report != nil
}

// BatchOutcome collects per-query results in input order.
type BatchOutcome struct {
	Items []BatchItem
}

// Succeeded returns the number of queries that produced a report.
func (o *BatchOutcome) Succeeded() int {
	n := 0
	for _, item := range o.Items {
		if item.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of queries that failed.
func (o *BatchOutcome) Failed() int {
	return len(o.Items) - o.Succeeded()
}

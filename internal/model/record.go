package model

// LookupRecord is the remote service's answer for one phone number
type LookupRecord struct {
	Code        string `json:"code"`                   // Numeric prefix (area/operator code)
	Num         string `json:"num"`                    // Subscriber number without the code
	FullNum     string `json:"full_num"`               // Canonical full number
	Operator    string `json:"operator"`               // Current operator name
	OldOperator string `json:"old_operator,omitempty"` // Previous operator if the number was ported
	Region      string `json:"region"`                 // Region name
}

// OperatorSummary is the number of resolved records served by one operator
type OperatorSummary struct {
	Operator string `json:"operator"`
	Count    int    `json:"count"`
}

// Failure identifies an input that did not produce a LookupRecord
type Failure struct {
	Index int    // Position of the input in the submission
	Input string // Raw input as submitted
	Err   error  // Why the lookup failed
}

// Outcome is the result of one submission
type Outcome struct {
	Records  []LookupRecord // Successful lookups in submission order
	Failures []Failure      // Inputs that produced no record
}

// FailureCount returns the number of unresolved inputs
func (o Outcome) FailureCount() int {
	return len(o.Failures)
}

// Total returns the number of inputs the outcome covers
func (o Outcome) Total() int {
	return len(o.Records) + len(o.Failures)
}

package constants

// State is the processing state of one document within a batch run.
type State string

const (
	StatePending     State = "PENDING"
	StateDetecting   State = "DETECTING"
	StateRepairing   State = "REPAIRING"
	StateExtracting  State = "EXTRACTING"
	StateClassifying State = "CLASSIFYING"
	StateRouting     State = "ROUTING"
	StateDone        State = "DONE"    // terminal: artifact filed
	StateErrored     State = "ERRORED" // terminal: source quarantined (or quarantine disabled)
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateErrored
}

// Kind is the recovery path chosen for a document.
type Kind string

const (
	KindDigital Kind = "digital"
	KindScanned Kind = "scanned"
)

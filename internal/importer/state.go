package importer

// State tracks a dataset's progress through its pipeline. Datasets advance
// strictly in order: Pending → Downloading → Extracting → Importing →
// Cleaned → Done, or Failed from any state.
type State int

const (
	StatePending State = iota
	StateDownloading
	StateExtracting
	StateImporting
	StateCleaned
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StatePending:     "pending",
	StateDownloading: "downloading",
	StateExtracting:  "extracting",
	StateImporting:   "importing",
	StateCleaned:     "cleaned",
	StateDone:        "done",
	StateFailed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

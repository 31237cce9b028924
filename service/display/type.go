package display

// IService receives the human-readable per-frame status: the ranked-label
// read-out plus the winning label, for an overlay or console line.
type IService interface {
	Show(machine string, winner string, message string)
}

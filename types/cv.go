package types

// Public payload shapes carried on the bus.

// Binding selects the CV input driving a parameter: 0 is unbound,
// n is CV input n (1-based).
type Binding uint8

const Unbound Binding = 0

// CVConfig is published retained on "config/cv".
type CVConfig struct {
	Inputs    []int     // ADC input ids; CV input n is Inputs[n-1]
	Hits      []Binding // per rhythm channel
	Offset    []Binding // per rhythm channel
	FullScale uint16    // raw full-scale value (e.g. 1023)
	Lengths   []int     // initial sequence lengths per rhythm channel
	PollMS    int       // 0 => service default
	Source    string    // "adc" (on-chip) or "pcf8591"
}

// CVParams is a snapshot of the mapped parameter values ("cv/params").
type CVParams struct {
	Raw    []uint16
	Hits   []int
	Offset []int
	TSms   int64
}

// CVChanged is the non-retained event on "cv/changed".
type CVChanged struct {
	Channels []int // rhythm channels whose values changed
	TSms     int64
}

// ServiceState is published retained on "<service>/state".
type ServiceState struct {
	Level  string // "idle","ready","error","stopped"
	Status string
	Error  string
	TSms   int64
}

// ErrorReply is sent in response to a failed control request.
type ErrorReply struct {
	OK    bool
	Error string
}

// OKReply acknowledges a control request.
type OKReply struct {
	OK bool
}

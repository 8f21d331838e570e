package cv

import "cvexpander-go/bus"

var (
	TopicConfig  = bus.T("config", "cv")
	TopicParams  = bus.T("cv", "params")  // retained types.CVParams
	TopicChanged = bus.T("cv", "changed") // types.CVChanged
	TopicState   = bus.T("cv", "state")   // retained types.ServiceState
	TopicReadNow = bus.T("cv", "control", "read_now")

	topicLengths = bus.T("seq", "length", "+")
	topicControl = bus.T("cv", "control", "+")
)

// TopicLength addresses the sequence length of rhythm channel ch.
func TopicLength(ch int) bus.Topic { return bus.T("seq", "length", ch) }

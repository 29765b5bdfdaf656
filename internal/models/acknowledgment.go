package models

// Acknowledgment is the JSON object returned to the WordPress webhook caller.
type Acknowledgment struct {
	Status   string  `json:"status,omitempty"`
	Event    string  `json:"event,omitempty"`
	Reason   string  `json:"reason,omitempty"`
	Expected any     `json:"expected,omitempty"`
	Received *string `json:"received,omitempty"`
	Error    string  `json:"error,omitempty"`
}

const (
	// AckSuccess is the status of an acknowledgment for a forwarded event.
	AckSuccess = "success"
	// AckIgnored is the status of an acknowledgment for a filtered event.
	AckIgnored = "ignored"
)

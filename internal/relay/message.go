package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message is the payload the temi robot consumes from the broker.
type Message struct {
	TemiRequest bool    `json:"temi_request"`
	Location    *string `json:"location"`
}

// NewMessage builds a temi request for location; nil serialises as null.
func NewMessage(location *string) Message {
	return Message{
		TemiRequest: true,
		Location:    location,
	}
}

// Encode serialises m the way the robot's JSON parser expects:
// no HTML escaping and no trailing newline.
func (m Message) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding temi message: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

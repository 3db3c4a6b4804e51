package mqtt

import "strings"

// DefaultTopic is the topic the temi robot listens on.
const DefaultTopic = "temi-data"

// validatePublishTopic rejects empty topics and filters with wildcards,
// which MQTT does not allow in a PUBLISH.
func validatePublishTopic(topic string) error {
	if topic == "" || strings.ContainsAny(topic, "+#") {
		return ErrInvalidTopic
	}
	return nil
}

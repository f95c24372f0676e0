package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
)

// PublishWithSessionScope publishes msg on {baseTopic}.{sessionID} so clients
// can follow one session ("palette.generated.v1.<id>") or all of them
// ("palette.generated.v1.*").
func PublishWithSessionScope(bus message.Publisher, baseTopic, sessionID string, msg *message.Message) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID cannot be empty for session-scoped publish")
	}
	return bus.Publish(FormatSessionScopedTopic(baseTopic, sessionID), msg)
}

// FormatSessionScopedTopic returns the session-scoped form of baseTopic.
// An empty sessionID leaves the topic unchanged.
func FormatSessionScopedTopic(baseTopic, sessionID string) string {
	if sessionID == "" {
		return baseTopic
	}
	return fmt.Sprintf("%s.%s", baseTopic, sessionID)
}

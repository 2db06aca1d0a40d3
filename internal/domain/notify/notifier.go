package notify

import "context"

// Notifier delivers rendered reminder text to a channel or user.
// Implementations wrap the chat-platform client.
type Notifier interface {
	// Send pushes text to the given channel and returns the platform's
	// identifier for the sent message.
	Send(ctx context.Context, channelID, text string) (msgID string, err error)
}

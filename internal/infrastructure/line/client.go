package line

import (
	"context"
	"net/http"
	"os"
	"sync"
	"tildy/internal/pkg/logger"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Client wraps the linebot.Client. It implements notify.Notifier.
type Client struct {
	*linebot.Client
	log logger.Logger
}

var (
	lineClientInstance *Client
	once               sync.Once
)

// NewClient creates a new singleton instance of the LINE Bot client.
func NewClient(channelSecret, channelToken string, log logger.Logger) *Client {
	once.Do(func() {
		bot, err := linebot.New(channelSecret, channelToken)
		if err != nil {
			log.Error("Failed to create LINE Bot client", err)
			os.Exit(1)
		}
		log.Info("Successfully created LINE Bot client.")
		lineClientInstance = &Client{
			Client: bot,
			log:    log,
		}
	})
	return lineClientInstance
}

// Send pushes text to the given channel (a user, group, or room ID) and
// returns the platform request ID for the sent message.
func (c *Client) Send(ctx context.Context, channelID, text string) (string, error) {
	res, err := c.PushMessage(channelID, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return "", err
	}
	c.log.Debug("Successfully sent push message.")
	return res.RequestID, nil
}

// SendMessages sends one or more messages using the ReplyMessage API.
func (c *Client) SendMessages(replyToken string, messages ...linebot.SendingMessage) error {
	_, err := c.ReplyMessage(replyToken, messages...).Do()
	if err != nil {
		return err
	}
	c.log.Debug("Successfully sent reply message.")
	return nil
}

// ParseRequest parses incoming webhook requests.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.Client.ParseRequest(r)
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tildy/internal/application/dto"
	"tildy/internal/application/service"
	"tildy/internal/infrastructure/line"
	appErrors "tildy/internal/pkg/errors"
	"tildy/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// LineHandler handles incoming LINE webhook events, resolving message text
// against the trigger table and dispatching to the services.
type LineHandler struct {
	lineClient      *line.Client
	matcher         *service.TriggerMatcher
	reminderService service.ReminderService
	timezoneService service.TimezoneService
	log             logger.Logger
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(
	lineClient *line.Client,
	matcher *service.TriggerMatcher,
	reminderService service.ReminderService,
	timezoneService service.TimezoneService,
	log logger.Logger,
) *LineHandler {
	return &LineHandler{
		lineClient:      lineClient,
		matcher:         matcher,
		reminderService: reminderService,
		timezoneService: timezoneService,
		log:             log,
	}
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		if event.Type != linebot.EventTypeMessage {
			h.log.Debug(fmt.Sprintf("Ignoring event type: %s", event.Type))
			continue
		}
		h.handleMessageEvent(ctx, event)
	}

	return c.String(http.StatusOK, "OK")
}

// handleMessageEvent resolves a text message against the trigger table.
func (h *LineHandler) handleMessageEvent(ctx context.Context, event *linebot.Event) {
	message, ok := event.Message.(*linebot.TextMessage)
	if !ok {
		return
	}

	match, ok := h.matcher.Match(message.Text)
	if !ok {
		return
	}
	h.log.Info(fmt.Sprintf("Trigger %q matched for user %s", match.Name, event.Source.UserID))

	switch match.Name {
	case "add_reminder":
		h.handleAddReminder(ctx, event, match)
	case "reminder_explain":
		h.handleReminderExplain(ctx, event, match)
	case "cancel_reminder":
		h.handleCancelReminder(ctx, event, match)
	case "set_timezone":
		h.handleSetTimezone(ctx, event, match)
	case "get_timezone":
		h.handleGetTimezone(ctx, event)
	default:
		h.log.Warn(fmt.Sprintf("No handler for trigger %q", match.Name))
	}
}

// channelFor picks the push destination for an event: the group or room it
// came from, falling back to the sender for one-on-one chats.
func channelFor(event *linebot.Event) string {
	if event.Source.GroupID != "" {
		return event.Source.GroupID
	}
	if event.Source.RoomID != "" {
		return event.Source.RoomID
	}
	return event.Source.UserID
}

func (h *LineHandler) handleAddReminder(ctx context.Context, event *linebot.Event, match *service.TriggerMatch) {
	req := dto.AddReminderRequest{
		RequesterID:    event.Source.UserID,
		RawTimestamp:   match.Fields["timestamp"],
		Notes:          match.Fields["text"],
		ChannelID:      channelFor(event),
		AdvanceWarning: match.Fields["advance"] != "",
	}

	reminder, err := h.reminderService.AddReminder(ctx, req)
	if err != nil {
		h.replyReminderError(event.ReplyToken, err)
		return
	}

	// The confirmation goes out as a push so the platform hands back a
	// message ID we can write onto the record.
	confirmation := h.reminderService.RenderConfirmation(reminder)
	msgID, err := h.lineClient.Send(ctx, reminder.ChannelID, confirmation)
	if err != nil {
		h.log.Error(fmt.Sprintf("Failed to send confirmation for reminder %d", reminder.ID), err)
		return
	}
	if err := h.reminderService.SetConfirmationMessage(ctx, reminder.ID, msgID); err != nil {
		h.log.Error(fmt.Sprintf("Failed to record confirmation message for reminder %d", reminder.ID), err)
	}
}

func (h *LineHandler) handleReminderExplain(ctx context.Context, event *linebot.Event, match *service.TriggerMatch) {
	resolved, err := h.reminderService.ExplainTimestamp(ctx, event.Source.UserID, match.Fields["timestamp"])
	if err != nil {
		h.replyReminderError(event.ReplyToken, err)
		return
	}
	h.reply(event.ReplyToken, fmt.Sprintf(
		"Mention me to set it! I would remind you at %s: %s",
		resolved.Format("Mon, 02 Jan 2006 15:04:05 MST"), match.Fields["text"]))
}

func (h *LineHandler) handleCancelReminder(ctx context.Context, event *linebot.Event, match *service.TriggerMatch) {
	id, err := strconv.ParseUint(match.Fields["id"], 10, 64)
	if err != nil {
		h.reply(event.ReplyToken, "That doesn't look like a reminder ID.")
		return
	}
	if err := h.reminderService.CancelReminder(ctx, uint(id)); err != nil {
		h.log.Error(fmt.Sprintf("Failed to cancel reminder %d", id), err)
		h.reply(event.ReplyToken, "Sorry, I couldn't cancel that reminder.")
		return
	}
	h.reply(event.ReplyToken, fmt.Sprintf("Reminder %d cancelled.", id))
}

func (h *LineHandler) handleSetTimezone(ctx context.Context, event *linebot.Event, match *service.TriggerMatch) {
	zoneName := match.Fields["zone"]
	req := dto.SetTimezoneRequest{
		UserID:   event.Source.UserID,
		Name:     event.Source.UserID,
		ZoneName: zoneName,
	}
	// Use the display name when the profile is available.
	if profile, err := h.lineClient.GetProfile(event.Source.UserID).Do(); err == nil {
		req.Name = profile.DisplayName
	}

	timezone, err := h.timezoneService.SetTimezone(ctx, req)
	if err != nil {
		if errors.Is(err, appErrors.ErrTimezoneNotFound) {
			h.reply(event.ReplyToken, fmt.Sprintf("Sorry, %s is not a known TZ DB key", zoneName))
			return
		}
		h.reply(event.ReplyToken, "Sorry, I couldn't save your timezone.")
		return
	}
	h.reply(event.ReplyToken, fmt.Sprintf(
		"Your timezone has been set to: %s (UTC%s)", timezone.Name, zoneOffset(timezone.Name)))
}

func (h *LineHandler) handleGetTimezone(ctx context.Context, event *linebot.Event) {
	timezone, err := h.timezoneService.GetTimezone(ctx, event.Source.UserID)
	if err != nil {
		var notFound *appErrors.TlderNotFoundError
		if errors.As(err, &notFound) {
			h.reply(event.ReplyToken, "Sorry, you don't have a timezone configured 😢. Set one with !timezone <zone>.")
			return
		}
		h.reply(event.ReplyToken, "Sorry, I couldn't look up your timezone.")
		return
	}
	h.reply(event.ReplyToken, fmt.Sprintf(
		"Your currently configured timezone is: %s (UTC%s)", timezone.Name, zoneOffset(timezone.Name)))
}

// replyReminderError maps reminder-creation failures to short user-facing
// messages; the full context is already in the logs.
func (h *LineHandler) replyReminderError(replyToken string, err error) {
	var timeTravel *appErrors.TimeTravelError
	var parsing *appErrors.ReminderParsingError
	var noTlder *appErrors.TlderNotFoundError
	switch {
	case errors.As(err, &timeTravel):
		h.reply(replyToken, timeTravel.Message)
	case errors.As(err, &parsing):
		h.reply(replyToken, "I'm sorry, I was unable to process this time 😢.")
	case errors.As(err, &noTlder):
		h.reply(replyToken, "Sorry, you don't have a timezone configured 😢. Set one with !timezone <zone>.")
	default:
		h.reply(replyToken, "Sorry, something went wrong setting that reminder.")
	}
}

func (h *LineHandler) reply(replyToken, text string) {
	if err := h.lineClient.SendMessages(replyToken, linebot.NewTextMessage(text)); err != nil {
		h.log.Error(fmt.Sprintf("Failed to send reply: %s", text), err)
	}
}

// zoneOffset renders the current UTC offset of a zone, e.g. "-05:00".
func zoneOffset(zoneName string) string {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return ""
	}
	return time.Now().In(loc).Format("-07:00")
}

package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	calendarv3 "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

const listPageSize = 50

// Client reads events from the user's primary Google Calendar. The API is an
// opaque read source; all decision logic lives in Classifier.
type Client struct {
	svc        *calendarv3.Service
	classifier *Classifier
	log        *slog.Logger
}

// NewClient wraps an authenticated HTTP client in a Calendar service.
func NewClient(ctx context.Context, httpClient *http.Client, classifier *Classifier, log *slog.Logger) (*Client, error) {
	svc, err := calendarv3.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Client{svc: svc, classifier: classifier, log: log}, nil
}

// ListEvents returns the raw single events between timeMin and timeMax in
// start-time order.
func (c *Client) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]*calendarv3.Event, error) {
	resp, err := c.svc.Events.List("primary").
		TimeMin(timeMin.UTC().Format(time.RFC3339)).
		TimeMax(timeMax.UTC().Format(time.RFC3339)).
		MaxResults(listPageSize).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return resp.Items, nil
}

// UpcomingMeetings fetches the events starting between hoursAheadMin and
// hoursAheadMax from now and returns the classified meetings that need
// preparation.
func (c *Client) UpcomingMeetings(ctx context.Context, now time.Time, hoursAheadMin, hoursAheadMax int) ([]model.Meeting, error) {
	timeMin := now.Add(time.Duration(hoursAheadMin) * time.Hour)
	timeMax := now.Add(time.Duration(hoursAheadMax) * time.Hour)
	return c.eligibleMeetings(ctx, timeMin, timeMax, model.TopicFilter{})
}

// MeetingsInRange returns the eligible, classified meetings in an explicit
// window, narrowed by one tagged topic filter (TopicNone passes all).
func (c *Client) MeetingsInRange(ctx context.Context, start, end time.Time, filter model.TopicFilter) ([]model.Meeting, error) {
	return c.eligibleMeetings(ctx, start, end, filter)
}

// ClientMeetings returns only the upcoming meetings with external attendees.
func (c *Client) ClientMeetings(ctx context.Context, now time.Time, hoursAheadMin, hoursAheadMax int) ([]model.Meeting, error) {
	all, err := c.UpcomingMeetings(ctx, now, hoursAheadMin, hoursAheadMax)
	if err != nil {
		return nil, err
	}
	var out []model.Meeting
	for _, m := range all {
		if m.IsClientMeeting {
			out = append(out, m)
		}
	}
	c.log.Info("client meetings identified", "client", len(out), "total", len(all))
	return out, nil
}

func (c *Client) eligibleMeetings(ctx context.Context, timeMin, timeMax time.Time, filter model.TopicFilter) ([]model.Meeting, error) {
	events, err := c.ListEvents(ctx, timeMin, timeMax)
	if err != nil {
		return nil, err
	}

	var meetings []model.Meeting
	for _, ev := range events {
		if !c.classifier.ShouldPrepare(ev) {
			continue
		}
		m, ok := c.classifier.BuildMeeting(ev)
		if !ok {
			c.log.Debug("skipping unparsable event", "id", ev.Id)
			continue
		}
		if !c.classifier.MatchesFilter(m, filter) {
			continue
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}

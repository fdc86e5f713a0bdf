package calendar

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/api/calendar/v3"

	"github.com/workspacemcp/workspace-mcp/internal/pkg/response"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/validate"
)

// CalendarSummary is a compact representation of a Google Calendar.
type CalendarSummary struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Primary     bool   `json:"primary,omitempty"`
	TimeZone    string `json:"time_zone,omitempty"`
}

// EventSummary is a compact representation of a calendar event.
type EventSummary struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Status      string   `json:"status,omitempty"`
	HTMLLink    string   `json:"html_link,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	Organizer   string   `json:"organizer,omitempty"`
}

func calendarToSummary(c *calendar.CalendarListEntry) CalendarSummary {
	return CalendarSummary{
		ID:          c.Id,
		Summary:     c.Summary,
		Description: c.Description,
		Primary:     c.Primary,
		TimeZone:    c.TimeZone,
	}
}

func eventToSummary(e *calendar.Event) EventSummary {
	attendees := make([]string, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		attendees = append(attendees, formatAttendee(a))
	}

	var organizer string
	if e.Organizer != nil {
		organizer = e.Organizer.Email
		if e.Organizer.DisplayName != "" {
			organizer = fmt.Sprintf("%s (%s)", e.Organizer.DisplayName, e.Organizer.Email)
		}
	}

	return EventSummary{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Start:       formatEventTime(e.Start),
		End:         formatEventTime(e.End),
		Status:      e.Status,
		HTMLLink:    e.HtmlLink,
		Attendees:   attendees,
		Organizer:   organizer,
	}
}

// formatEventTime returns a human-readable event time string. All-day events
// carry a bare date.
func formatEventTime(et *calendar.EventDateTime) string {
	if et == nil {
		return ""
	}
	if et.Date != "" {
		return et.Date
	}
	return et.DateTime
}

// buildEventDateTime creates an EventDateTime from a time string. A bare
// date (no time component) produces an all-day event.
func buildEventDateTime(timeStr, timezone string) *calendar.EventDateTime {
	if len(timeStr) <= 10 {
		return &calendar.EventDateTime{Date: timeStr}
	}
	edt := &calendar.EventDateTime{DateTime: timeStr}
	if timezone != "" {
		edt.TimeZone = timezone
	}
	return edt
}

func formatAttendee(a *calendar.EventAttendee) string {
	parts := []string{a.Email}
	if a.DisplayName != "" {
		parts = []string{fmt.Sprintf("%s (%s)", a.DisplayName, a.Email)}
	}
	if a.ResponseStatus != "" {
		parts = append(parts, fmt.Sprintf("[%s]", a.ResponseStatus))
	}
	if a.Organizer {
		parts = append(parts, "(organizer)")
	}
	if a.Optional {
		parts = append(parts, "(optional)")
	}
	return strings.Join(parts, " ")
}

// formatEventDetail writes the full field set of one event to the response
// builder, used for single-event lookups and detailed listings.
func formatEventDetail(rb *response.Builder, es EventSummary) {
	rb.KeyValue("Summary", es.Summary)
	rb.KeyValue("Start", es.Start)
	rb.KeyValue("End", es.End)
	if es.Location != "" {
		rb.KeyValue("Location", es.Location)
	}
	if es.Description != "" {
		rb.KeyValue("Description", es.Description)
	}
	if es.Organizer != "" {
		rb.KeyValue("Organizer", es.Organizer)
	}
	if len(es.Attendees) > 0 {
		rb.Section("Attendees")
		for _, a := range es.Attendees {
			rb.Item("%s", a)
		}
	}
	rb.KeyValue("Status", es.Status)
	rb.KeyValue("ID", es.ID)
	if es.HTMLLink != "" {
		rb.KeyValue("Link", es.HTMLLink)
	}
}

// ReminderSpec represents a reminder configuration.
type ReminderSpec struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

// parseReminders parses a JSON array of reminder specs.
func parseReminders(input string) ([]*calendar.EventReminder, error) {
	if input == "" {
		return nil, nil
	}

	var specs []ReminderSpec
	if err := json.Unmarshal([]byte(input), &specs); err != nil {
		return nil, fmt.Errorf("parsing reminders JSON, expected [{\"method\":\"popup\",\"minutes\":15}]: %w", err)
	}

	reminders := make([]*calendar.EventReminder, 0, len(specs))
	for _, s := range specs {
		if s.Method != "popup" && s.Method != "email" {
			return nil, fmt.Errorf("invalid reminder method %q, use 'popup' or 'email'", s.Method)
		}
		if s.Minutes < 0 || s.Minutes > 40320 {
			return nil, fmt.Errorf("reminder minutes must be 0-40320, got %d", s.Minutes)
		}
		reminders = append(reminders, &calendar.EventReminder{
			Method:  s.Method,
			Minutes: int64(s.Minutes),
		})
	}

	return reminders, nil
}

// buildAttendees converts and validates a list of attendee email addresses.
func buildAttendees(emails []string) ([]*calendar.EventAttendee, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	attendees := make([]*calendar.EventAttendee, 0, len(emails))
	for _, email := range emails {
		if err := validate.Email(email); err != nil {
			return nil, fmt.Errorf("attendee %q: %w", email, err)
		}
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	return attendees, nil
}

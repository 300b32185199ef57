package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"hiringdesk/core/config"
	"hiringdesk/core/logger"

	"github.com/google/uuid"
	"golang.org/x/oauth2/jwt"
)

const calendarBaseURL = "https://www.googleapis.com/calendar/v3"

// Meeting is a provisioned conference.
type Meeting struct {
	EventID     string
	MeetingLink string
}

// MeetingInput describes the event to create.
type MeetingInput struct {
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Attendees   []string
}

// MeetProviderInterface provisions and cancels Google Meet conferences.
type MeetProviderInterface interface {
	CreateMeeting(ctx context.Context, in MeetingInput) (*Meeting, error)
	CancelMeeting(ctx context.Context, eventID string) error
}

// MeetProvider talks to the Google Calendar API with a service account that
// has domain-wide delegation onto the scheduling calendar.
type MeetProvider struct {
	conf       *jwt.Config
	calendarID string
}

func NewMeetProvider(cfg config.GoogleConfig) *MeetProvider {
	return &MeetProvider{
		conf: &jwt.Config{
			Email:      cfg.ServiceAccountEmail,
			PrivateKey: []byte(cfg.PrivateKey),
			Subject:    cfg.ImpersonateUser,
			Scopes:     []string{"https://www.googleapis.com/auth/calendar"},
			TokenURL:   "https://oauth2.googleapis.com/token",
		},
		calendarID: cfg.CalendarID,
	}
}

type conferenceEvent struct {
	ID             string          `json:"id,omitempty"`
	Summary        string          `json:"summary"`
	Description    string          `json:"description,omitempty"`
	Start          eventTime       `json:"start"`
	End            eventTime       `json:"end"`
	Attendees      []eventAttendee `json:"attendees,omitempty"`
	ConferenceData *conferenceData `json:"conferenceData,omitempty"`
	HangoutLink    string          `json:"hangoutLink,omitempty"`
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type eventAttendee struct {
	Email string `json:"email"`
}

type conferenceData struct {
	CreateRequest *conferenceCreateRequest `json:"createRequest,omitempty"`
	EntryPoints   []conferenceEntryPoint   `json:"entryPoints,omitempty"`
}

type conferenceCreateRequest struct {
	RequestID             string                `json:"requestId"`
	ConferenceSolutionKey conferenceSolutionKey `json:"conferenceSolutionKey"`
}

type conferenceSolutionKey struct {
	Type string `json:"type"`
}

type conferenceEntryPoint struct {
	EntryPointType string `json:"entryPointType"`
	URI            string `json:"uri"`
}

// CreateMeeting inserts a calendar event with an attached Meet conference and
// returns the join link.
func (p *MeetProvider) CreateMeeting(ctx context.Context, in MeetingInput) (*Meeting, error) {
	attendees := make([]eventAttendee, 0, len(in.Attendees))
	for _, email := range in.Attendees {
		attendees = append(attendees, eventAttendee{Email: email})
	}

	event := conferenceEvent{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       eventTime{DateTime: in.StartTime.Format(time.RFC3339)},
		End:         eventTime{DateTime: in.EndTime.Format(time.RFC3339)},
		Attendees:   attendees,
		ConferenceData: &conferenceData{
			CreateRequest: &conferenceCreateRequest{
				RequestID:             uuid.NewString(),
				ConferenceSolutionKey: conferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}

	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1&sendUpdates=all",
		calendarBaseURL, url.PathEscape(p.calendarID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.conf.Client(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("create calendar event: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var created conferenceEvent
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("decode calendar response: %w", err)
	}

	link := created.HangoutLink
	if link == "" && created.ConferenceData != nil {
		for _, ep := range created.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				link = ep.URI
				break
			}
		}
	}
	if link == "" {
		return nil, fmt.Errorf("calendar event %s has no meet link", created.ID)
	}

	logger.Info("MeetProvider:CreateMeeting:Created", "event_id", created.ID)
	return &Meeting{EventID: created.ID, MeetingLink: link}, nil
}

// CancelMeeting deletes the calendar event, notifying attendees. A 404 or
// 410 means the event is already gone and is not an error.
func (p *MeetProvider) CancelMeeting(ctx context.Context, eventID string) error {
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s?sendUpdates=all",
		calendarBaseURL, url.PathEscape(p.calendarID), url.PathEscape(eventID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := p.conf.Client(ctx).Do(req)
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound, http.StatusGone:
		return nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("calendar API returned %d: %s", resp.StatusCode, string(body))
	}
}

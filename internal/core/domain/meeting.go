package domain

import (
	"fmt"
	"time"
)

// MeetingSettings are the per-meeting toggles exposed by the HTTP API.
type MeetingSettings struct {
	EnableChat        bool `json:"enableChat"`
	EnableScreenShare bool `json:"enableScreenShare"`
	MaxParticipants   int  `json:"maxParticipants"`
}

func DefaultMeetingSettings() MeetingSettings {
	return MeetingSettings{
		EnableChat:        true,
		EnableScreenShare: true,
		MaxParticipants:   10,
	}
}

// Meeting is room metadata created ahead of the call. It is independent of
// the live Room state: the Room appears when the first peer joins and
// disappears with the last one, the Meeting stays listed.
type Meeting struct {
	ID        MeetingID       `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"createdAt"`
	Settings  MeetingSettings `json:"settings"`
	Active    bool            `json:"isActive"`
}

func NewMeeting(name string, settings *MeetingSettings) Meeting {
	if name == "" {
		name = fmt.Sprintf("Meeting %s", time.Now().Format("2006-01-02 15:04"))
	}
	s := DefaultMeetingSettings()
	if settings != nil {
		s = *settings
	}
	return Meeting{
		ID:        NewMeetingID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Settings:  s,
		Active:    true,
	}
}

package models

import "time"

// Session difficulty levels.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Session is a scheduled, capacity-limited learning event.
//
// CurrentParticipants always equals len(Participants); the ledger recomputes
// it after every membership change. Participants never contains duplicates.
// PaidCosts records what each participant was actually charged at join time
// so a later cost change by the host cannot skew the refund.
// Rating is stored as rating x 10 (one decimal place in integer storage).
type Session struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title" example:"Introduction to React"`
	Description         string         `json:"description"`
	HostID              string         `json:"hostId"`
	Category            string         `json:"category" example:"Programming"`
	Level               string         `json:"level" example:"beginner"`
	MaxParticipants     int            `json:"maxParticipants"`
	CurrentParticipants int            `json:"currentParticipants"`
	Cost                int            `json:"cost"`
	Datetime            time.Time      `json:"datetime"`
	Duration            int            `json:"duration" example:"90"`
	Participants        []string       `json:"participants"`
	PaidCosts           map[string]int `json:"paidCosts,omitempty"`
	Rating              int            `json:"rating"`
	RatingCount         int            `json:"ratingCount"`
	IsCompleted         bool           `json:"isCompleted"`
	MeetingRoomID       string         `json:"meetingRoomId"`
	MeetingStarted      bool           `json:"meetingStarted"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// IsParticipant reports whether userID is enrolled in the session.
func (s *Session) IsParticipant(userID string) bool {
	for _, id := range s.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the session has reached capacity.
func (s *Session) IsFull() bool {
	return s.CurrentParticipants >= s.MaxParticipants
}

// SessionCreate carries the fields a host sets when scheduling a session.
// Room id, counters and flags are derived by the ledger. HostID is optional;
// when empty the boundary fills in the current user.
type SessionCreate struct {
	HostID          string    `json:"hostId"`
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description" binding:"required"`
	Category        string    `json:"category" binding:"required"`
	Level           string    `json:"level" binding:"required"`
	MaxParticipants int       `json:"maxParticipants" binding:"required"`
	Cost            int       `json:"cost"`
	Datetime        time.Time `json:"datetime" binding:"required"`
	Duration        int       `json:"duration" binding:"required"`
}

// SessionUpdate is a named update command for host-editable fields.
// Identity, room id, participant state and rating accumulators are not
// reachable through it. Nil means "leave unchanged".
type SessionUpdate struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Category        *string    `json:"category"`
	Level           *string    `json:"level"`
	MaxParticipants *int       `json:"maxParticipants"`
	Cost            *int       `json:"cost"`
	Datetime        *time.Time `json:"datetime"`
	Duration        *int       `json:"duration"`
}

// HostSummary is the slice of host profile data embedded in session listings.
type HostSummary struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Username      string `json:"username"`
	AverageRating int    `json:"averageRating"`
}

// SessionResponse is a session enriched with its host's public profile.
type SessionResponse struct {
	Session
	Host *HostSummary `json:"host"`
}

// MeetingRoom is the video-call access context for a session.
type MeetingRoom struct {
	MeetingRoomID  string   `json:"meetingRoomId"`
	MeetingStarted bool     `json:"meetingStarted"`
	SessionTitle   string   `json:"sessionTitle"`
	HostID         string   `json:"hostId"`
	Participants   []string `json:"participants"`
}

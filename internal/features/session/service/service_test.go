package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionmodels "skillswap-backend/internal/features/session/models"
	sessionrepo "skillswap-backend/internal/features/session/repository"
	sessionmemory "skillswap-backend/internal/features/session/repository/memory"
	usermodels "skillswap-backend/internal/features/user/models"
	userrepo "skillswap-backend/internal/features/user/repository"
	usermemory "skillswap-backend/internal/features/user/repository/memory"
	userservice "skillswap-backend/internal/features/user/service"
)

type fixture struct {
	svc      SessionService
	users    userrepo.UserRepository
	sessions sessionrepo.SessionRepository
	mu       *sync.Mutex
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := usermemory.NewUserRepository()
	sessions := sessionmemory.NewSessionRepository()
	mu := &sync.Mutex{}
	return &fixture{
		svc:      NewSessionService(sessions, users, mu),
		users:    users,
		sessions: sessions,
		mu:       mu,
	}
}

func (f *fixture) addUser(t *testing.T, id string, points int) *usermodels.User {
	t.Helper()
	user := &usermodels.User{
		ID:               id,
		Username:         id,
		Email:            id + "@example.com",
		FullName:         "User " + id,
		Points:           points,
		TeachableSkills:  []string{},
		LearningSkills:   []string{},
		SessionsAttended: 0,
		CreatedAt:        time.Now(),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) addSession(t *testing.T, id, hostID string, cost, current, max int) *sessionmodels.Session {
	t.Helper()
	participants := make([]string, 0, current)
	for i := 0; i < current; i++ {
		pid := id + "-filler-" + string(rune('a'+i))
		participants = append(participants, pid)
	}
	session := &sessionmodels.Session{
		ID:                  id,
		Title:               "Session " + id,
		Description:         "desc",
		HostID:              hostID,
		Category:            "Programming",
		Level:               sessionmodels.LevelBeginner,
		MaxParticipants:     max,
		CurrentParticipants: len(participants),
		Cost:                cost,
		Datetime:            time.Now().Add(24 * time.Hour),
		Duration:            60,
		Participants:        participants,
		MeetingRoomID:       "room-" + id,
		CreatedAt:           time.Now(),
	}
	require.NoError(t, f.sessions.Create(context.Background(), session))
	return session
}

func (f *fixture) session(t *testing.T, id string) *sessionmodels.Session {
	t.Helper()
	session, err := f.sessions.GetByID(context.Background(), id)
	require.NoError(t, err)
	return session
}

func (f *fixture) user(t *testing.T, id string) *usermodels.User {
	t.Helper()
	user, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func assertCountInvariant(t *testing.T, s *sessionmodels.Session) {
	t.Helper()
	assert.Equal(t, len(s.Participants), s.CurrentParticipants,
		"currentParticipants must equal len(participants)")

	seen := make(map[string]struct{}, len(s.Participants))
	for _, id := range s.Participants {
		_, dup := seen[id]
		assert.False(t, dup, "participants must not contain duplicates: %s", id)
		seen[id] = struct{}{}
	}
}

func TestJoinDebitsPointsAndEnrolls(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 15)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 5, 10)

	require.NoError(t, f.svc.Join(context.Background(), "s1", "alice"))

	user := f.user(t, "alice")
	assert.Equal(t, 13, user.Points)
	assert.Equal(t, 1, user.SessionsAttended)

	session := f.session(t, "s1")
	assert.Equal(t, 6, session.CurrentParticipants)
	assert.True(t, session.IsParticipant("alice"))
	assert.Equal(t, 2, session.PaidCosts["alice"])
	assertCountInvariant(t, session)
}

func TestJoinThenLeaveConservesState(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 15)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 5, 10)

	before := f.user(t, "alice")

	require.NoError(t, f.svc.Join(context.Background(), "s1", "alice"))
	require.NoError(t, f.svc.Leave(context.Background(), "s1", "alice"))

	after := f.user(t, "alice")
	assert.Equal(t, before.Points, after.Points)
	assert.Equal(t, before.SessionsAttended, after.SessionsAttended)

	session := f.session(t, "s1")
	assert.Equal(t, 5, session.CurrentParticipants)
	assert.False(t, session.IsParticipant("alice"))
	assertCountInvariant(t, session)
}

func TestJoinIsIdempotentOnRetry(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 15)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 0, 10)

	require.NoError(t, f.svc.Join(context.Background(), "s1", "alice"))

	// A blind retry must fail on the membership check and mutate nothing.
	err := f.svc.Join(context.Background(), "s1", "alice")
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	user := f.user(t, "alice")
	assert.Equal(t, 13, user.Points, "retry must not double-charge")
	assert.Equal(t, 1, user.SessionsAttended)

	session := f.session(t, "s1")
	assert.Equal(t, 1, session.CurrentParticipants)
	assertCountInvariant(t, session)
}

func TestJoinFailsWhenSessionFull(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 50)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 10, 10)

	before := f.session(t, "s1")

	err := f.svc.Join(context.Background(), "s1", "alice")
	assert.ErrorIs(t, err, ErrSessionFull)

	after := f.session(t, "s1")
	assert.Equal(t, before.Participants, after.Participants)
	assert.Equal(t, 50, f.user(t, "alice").Points)
	assert.Equal(t, 0, f.user(t, "alice").SessionsAttended)
}

func TestJoinFailsWhenPointsInsufficient(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 1)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 0, 10)

	err := f.svc.Join(context.Background(), "s1", "alice")
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	user := f.user(t, "alice")
	assert.Equal(t, 1, user.Points)
	assert.Equal(t, 0, user.SessionsAttended)

	session := f.session(t, "s1")
	assert.Empty(t, session.Participants)
	assert.Equal(t, 0, session.CurrentParticipants)
}

func TestJoinPreconditionOrder(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 0)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 10, 10)

	tests := []struct {
		name      string
		sessionID string
		userID    string
		want      error
	}{
		{"unknown session", "nope", "alice", ErrSessionNotFound},
		{"unknown user", "s1", "nobody", ErrUserNotFound},
		// Full session reports full before insufficient points: capacity is
		// checked before balance.
		{"capacity before balance", "s1", "alice", ErrSessionFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.Join(context.Background(), tt.sessionID, tt.userID)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLeaveRequiresEnrollment(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 15)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 0, 10)

	err := f.svc.Leave(context.Background(), "s1", "alice")
	assert.ErrorIs(t, err, ErrNotEnrolled)
	assert.Equal(t, 15, f.user(t, "alice").Points, "failed leave must not refund")
}

func TestLeaveRefundsPaidCostNotCurrentCost(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 15)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 0, 10)

	require.NoError(t, f.svc.Join(context.Background(), "s1", "alice"))

	// Host raises the price while alice is enrolled.
	newCost := 9
	_, err := f.svc.Update(context.Background(), "s1", &sessionmodels.SessionUpdate{Cost: &newCost})
	require.NoError(t, err)

	require.NoError(t, f.svc.Leave(context.Background(), "s1", "alice"))

	user := f.user(t, "alice")
	assert.Equal(t, 15, user.Points, "refund must match the cost paid at join time")
}

func TestLeaveFloorsAttendedCounterAtZero(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 15)
	f.addUser(t, "host", 20)

	// Seeded enrollment without a paid-cost record and a zero counter.
	session := &sessionmodels.Session{
		ID:                  "s1",
		Title:               "Seeded",
		Description:         "desc",
		HostID:              "host",
		Category:            "Programming",
		Level:               sessionmodels.LevelBeginner,
		MaxParticipants:     10,
		CurrentParticipants: 1,
		Cost:                3,
		Datetime:            time.Now().Add(time.Hour),
		Duration:            60,
		Participants:        []string{"alice"},
		MeetingRoomID:       "room-s1",
	}
	require.NoError(t, f.sessions.Create(context.Background(), session))

	require.NoError(t, f.svc.Leave(context.Background(), "s1", "alice"))

	user := f.user(t, "alice")
	assert.Equal(t, 0, user.SessionsAttended, "attended counter must not go negative")
	assert.Equal(t, 18, user.Points, "falls back to current cost without a paid record")
}

func TestCreateSessionDerivesRoomAndCreditsHost(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "host", 20)

	input := &sessionmodels.SessionCreate{
		Title:           "Intro to Go!",
		Description:     "Concurrency from first principles",
		Category:        "Programming",
		Level:           sessionmodels.LevelBeginner,
		MaxParticipants: 10,
		Cost:            2,
		Datetime:        time.Now().Add(48 * time.Hour),
		Duration:        90,
	}

	first, err := f.svc.Create(context.Background(), "host", input)
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), "host", input)
	require.NoError(t, err)

	assert.NotEmpty(t, first.MeetingRoomID)
	assert.Contains(t, first.MeetingRoomID, "intro-to-go")
	assert.NotEqual(t, first.MeetingRoomID, second.MeetingRoomID,
		"room ids must be unique across sessions with the same title")

	assert.Equal(t, 0, first.CurrentParticipants)
	assert.Empty(t, first.Participants)
	assert.False(t, first.MeetingStarted)
	assert.False(t, first.IsCompleted)
	assert.Zero(t, first.Rating)
	assert.Zero(t, first.RatingCount)

	host := f.user(t, "host")
	assert.Equal(t, 2, host.SessionsHosted, "each create increments the hosted counter by one")
}

func TestCreateSessionRejectsUnknownHost(t *testing.T) {
	f := newFixture(t)

	input := &sessionmodels.SessionCreate{
		Title:           "Orphan session",
		Description:     "desc",
		Category:        "Programming",
		Level:           sessionmodels.LevelBeginner,
		MaxParticipants: 5,
		Datetime:        time.Now().Add(time.Hour),
		Duration:        60,
	}

	_, err := f.svc.Create(context.Background(), "ghost", input)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateSessionValidatesInput(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "host", 20)

	base := sessionmodels.SessionCreate{
		Title:           "Valid title",
		Description:     "Valid description",
		Category:        "Programming",
		Level:           sessionmodels.LevelBeginner,
		MaxParticipants: 5,
		Cost:            1,
		Datetime:        time.Now().Add(time.Hour),
		Duration:        60,
	}

	tests := []struct {
		name   string
		mutate func(*sessionmodels.SessionCreate)
	}{
		{"empty title", func(s *sessionmodels.SessionCreate) { s.Title = "  " }},
		{"bad level", func(s *sessionmodels.SessionCreate) { s.Level = "expert" }},
		{"zero capacity", func(s *sessionmodels.SessionCreate) { s.MaxParticipants = 0 }},
		{"negative cost", func(s *sessionmodels.SessionCreate) { s.Cost = -1 }},
		{"zero duration", func(s *sessionmodels.SessionCreate) { s.Duration = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base
			tt.mutate(&input)
			_, err := f.svc.Create(context.Background(), "host", &input)
			assert.Error(t, err)
		})
	}
}

func TestHostCanEnrollInOwnSession(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 0, 10)

	// Nothing forbids a host from joining their own session.
	require.NoError(t, f.svc.Join(context.Background(), "s1", "host"))
	assert.True(t, f.session(t, "s1").IsParticipant("host"))
}

func TestMeetingRoomAccessPolicy(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "host", 20)
	f.addUser(t, "alice", 20)
	f.addUser(t, "mallory", 20)
	f.addSession(t, "s1", "host", 2, 0, 10)
	require.NoError(t, f.svc.Join(context.Background(), "s1", "alice"))

	room, err := f.svc.GetMeetingRoom(context.Background(), "s1", "host")
	require.NoError(t, err)
	assert.Equal(t, "room-s1", room.MeetingRoomID)
	assert.Equal(t, "host", room.HostID)

	_, err = f.svc.GetMeetingRoom(context.Background(), "s1", "alice")
	assert.NoError(t, err, "participants may access the room")

	_, err = f.svc.GetMeetingRoom(context.Background(), "s1", "mallory")
	assert.ErrorIs(t, err, ErrRoomAccessDenied)

	_, err = f.svc.GetMeetingRoom(context.Background(), "missing", "host")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStartMeetingIsHostOnlyAndIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "host", 20)
	f.addUser(t, "alice", 20)
	f.addSession(t, "s1", "host", 2, 0, 10)

	_, err := f.svc.StartMeeting(context.Background(), "s1", "alice")
	assert.ErrorIs(t, err, ErrNotHost)

	session, err := f.svc.StartMeeting(context.Background(), "s1", "host")
	require.NoError(t, err)
	assert.True(t, session.MeetingStarted)

	session, err = f.svc.StartMeeting(context.Background(), "s1", "host")
	require.NoError(t, err)
	assert.True(t, session.MeetingStarted, "starting twice has no additional effect")
}

func TestEndMeetingCompletesSession(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 0, 10)

	_, err := f.svc.StartMeeting(context.Background(), "s1", "host")
	require.NoError(t, err)

	session, err := f.svc.EndMeeting(context.Background(), "s1", "host")
	require.NoError(t, err)
	assert.False(t, session.MeetingStarted)
	assert.True(t, session.IsCompleted)

	session, err = f.svc.EndMeeting(context.Background(), "s1", "host")
	require.NoError(t, err)
	assert.True(t, session.IsCompleted)
}

func TestUpdateSessionNamedFieldsOnly(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "host", 20)
	created := f.addSession(t, "s1", "host", 2, 0, 10)

	title := "Renamed"
	capacity := 4
	updated, err := f.svc.Update(context.Background(), "s1", &sessionmodels.SessionUpdate{
		Title:           &title,
		MaxParticipants: &capacity,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 4, updated.MaxParticipants)
	assert.Equal(t, created.MeetingRoomID, updated.MeetingRoomID, "room id is immutable")
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "desc", updated.Description, "unset fields stay unchanged")

	_, err = f.svc.Update(context.Background(), "missing", &sessionmodels.SessionUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestInvariantsHoldAcrossMixedOperations(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "host", 20)
	for _, id := range []string{"u1", "u2", "u3"} {
		f.addUser(t, id, 10)
	}
	f.addSession(t, "s1", "host", 1, 0, 2)

	ctx := context.Background()
	require.NoError(t, f.svc.Join(ctx, "s1", "u1"))
	require.NoError(t, f.svc.Join(ctx, "s1", "u2"))
	assert.ErrorIs(t, f.svc.Join(ctx, "s1", "u3"), ErrSessionFull)
	require.NoError(t, f.svc.Leave(ctx, "s1", "u1"))
	require.NoError(t, f.svc.Join(ctx, "s1", "u3"))
	assert.ErrorIs(t, f.svc.Leave(ctx, "s1", "u1"), ErrNotEnrolled)

	session := f.session(t, "s1")
	assertCountInvariant(t, session)
	assert.ElementsMatch(t, []string{"u2", "u3"}, session.Participants)
	assert.Equal(t, 10, f.user(t, "u1").Points)
	assert.Equal(t, 9, f.user(t, "u2").Points)
	assert.Equal(t, 9, f.user(t, "u3").Points)
}

// Profile writes go through the user service while enrollment debits go
// through this one. Both mutate the same user records, so they share one
// lock; a profile write-back landing between a join's balance read and
// write would otherwise restore the pre-debit balance.
func TestConcurrentProfileWritesPreserveDebits(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 100)
	f.addUser(t, "host", 20)
	f.addSession(t, "s1", "host", 2, 0, 10)

	profiles := userservice.NewUserService(f.users, f.mu)

	ctx := context.Background()
	const rounds = 50

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			assert.NoError(t, f.svc.Join(ctx, "s1", "alice"))
			assert.NoError(t, f.svc.Leave(ctx, "s1", "alice"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			bio := fmt.Sprintf("revision %d", i)
			_, err := profiles.UpdateProfile(ctx, "alice", &usermodels.UserUpdate{Bio: &bio})
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	alice := f.user(t, "alice")
	assert.Equal(t, 100, alice.Points, "paired join/leave must conserve the balance under concurrent profile writes")
	assert.Zero(t, alice.SessionsAttended)
	assert.Equal(t, fmt.Sprintf("revision %d", rounds-1), alice.Bio)

	session := f.session(t, "s1")
	assert.False(t, session.IsParticipant("alice"))
	assertCountInvariant(t, session)
}

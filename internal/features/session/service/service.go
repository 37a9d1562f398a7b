package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"skillswap-backend/internal/common/logger"
	"skillswap-backend/internal/common/validation"
	"skillswap-backend/internal/features/session/models"
	"skillswap-backend/internal/features/session/repository"
	userrepo "skillswap-backend/internal/features/user/repository"
)

// SessionService is the enrollment ledger: every operation that couples a
// user's point balance to a session's participant set goes through here.
type SessionService interface {
	Create(ctx context.Context, hostID string, input *models.SessionCreate) (*models.Session, error)
	Update(ctx context.Context, sessionID string, input *models.SessionUpdate) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.SessionResponse, error)
	List(ctx context.Context) ([]*models.SessionResponse, error)
	ListByHost(ctx context.Context, hostID string) ([]*models.Session, error)
	ListByParticipant(ctx context.Context, userID string) ([]*models.Session, error)

	Join(ctx context.Context, sessionID, userID string) error
	Leave(ctx context.Context, sessionID, userID string) error

	GetMeetingRoom(ctx context.Context, sessionID, userID string) (*models.MeetingRoom, error)
	StartMeeting(ctx context.Context, sessionID, userID string) (*models.Session, error)
	EndMeeting(ctx context.Context, sessionID, userID string) (*models.Session, error)
}

type sessionService struct {
	repo     repository.SessionRepository
	userRepo userrepo.UserRepository

	// Serializes every read-check-mutate-write sequence. The capacity and
	// balance checks are separable from the writes that follow them, so
	// concurrent callers must not interleave between check and write. The
	// lock is shared with the user service because both mutate user records.
	mu *sync.Mutex
}

func NewSessionService(repo repository.SessionRepository, userRepo userrepo.UserRepository, mu *sync.Mutex) SessionService {
	return &sessionService{
		repo:     repo,
		userRepo: userRepo,
		mu:       mu,
	}
}

func (s *sessionService) Create(ctx context.Context, hostID string, input *models.SessionCreate) (*models.Session, error) {
	if err := validation.ValidateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validation.ValidateLevel(input.Level); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositiveInt(input.MaxParticipants, "maxParticipants"); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegativeInt(input.Cost, "cost"); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositiveInt(input.Duration, "duration"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	host, err := s.userRepo.GetByID(ctx, hostID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	id := uuid.New().String()
	session := &models.Session{
		ID:                  id,
		Title:               input.Title,
		Description:         input.Description,
		HostID:              hostID,
		Category:            input.Category,
		Level:               input.Level,
		MaxParticipants:     input.MaxParticipants,
		CurrentParticipants: 0,
		Cost:                input.Cost,
		Datetime:            input.Datetime,
		Duration:            input.Duration,
		Participants:        []string{},
		Rating:              0,
		RatingCount:         0,
		IsCompleted:         false,
		MeetingRoomID:       makeMeetingRoomID(id, input.Title),
		MeetingStarted:      false,
		CreatedAt:           time.Now(),
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Second write, not transactional with the first. If it fails the
	// session exists with an understated host counter; surface it loudly.
	host.SessionsHosted++
	if err := s.userRepo.Update(ctx, host); err != nil {
		logger.Error().Err(err).
			Str("session_id", session.ID).
			Str("host_id", hostID).
			Msg("Session created but host counter update failed")
	}

	logger.Debug().Str("session_id", session.ID).Str("host_id", hostID).Msg("Session created")

	return session, nil
}

func (s *sessionService) Update(ctx context.Context, sessionID string, input *models.SessionUpdate) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	if input.Title != nil {
		if err := validation.ValidateTitle(*input.Title); err != nil {
			return nil, err
		}
		session.Title = *input.Title
	}
	if input.Description != nil {
		if err := validation.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
		session.Description = *input.Description
	}
	if input.Category != nil {
		session.Category = *input.Category
	}
	if input.Level != nil {
		if err := validation.ValidateLevel(*input.Level); err != nil {
			return nil, err
		}
		session.Level = *input.Level
	}
	if input.MaxParticipants != nil {
		if err := validation.ValidatePositiveInt(*input.MaxParticipants, "maxParticipants"); err != nil {
			return nil, err
		}
		session.MaxParticipants = *input.MaxParticipants
	}
	if input.Cost != nil {
		if err := validation.ValidateNonNegativeInt(*input.Cost, "cost"); err != nil {
			return nil, err
		}
		session.Cost = *input.Cost
	}
	if input.Datetime != nil {
		session.Datetime = *input.Datetime
	}
	if input.Duration != nil {
		if err := validation.ValidatePositiveInt(*input.Duration, "duration"); err != nil {
			return nil, err
		}
		session.Duration = *input.Duration
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*models.SessionResponse, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return s.enrich(ctx, session), nil
}

func (s *sessionService) List(ctx context.Context) ([]*models.SessionResponse, error) {
	sessions, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]*models.SessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = s.enrich(ctx, session)
	}
	return responses, nil
}

func (s *sessionService) ListByHost(ctx context.Context, hostID string) ([]*models.Session, error) {
	sessions, err := s.repo.GetByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosted sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListByParticipant(ctx context.Context, userID string) ([]*models.Session, error) {
	sessions, err := s.repo.GetByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attended sessions: %w", err)
	}
	return sessions, nil
}

// Join enrolls a user. Preconditions run in order and short-circuit with no
// mutation: session exists, user exists, not already enrolled, capacity not
// reached, balance covers the cost. A second Join for the same pair fails on
// the membership check, which makes a blind retry after an ambiguous outcome
// safe: it can never double-charge.
func (s *sessionService) Join(ctx context.Context, sessionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return ErrSessionNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if session.IsParticipant(userID) {
		return ErrAlreadyEnrolled
	}
	if session.IsFull() {
		return ErrSessionFull
	}
	if user.Points < session.Cost {
		return ErrInsufficientPoints
	}

	session.Participants = append(session.Participants, userID)
	session.CurrentParticipants = len(session.Participants)
	if session.PaidCosts == nil {
		session.PaidCosts = make(map[string]int)
	}
	session.PaidCosts[userID] = session.Cost

	user.Points -= session.Cost
	user.SessionsAttended++

	if err := s.repo.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	logger.Debug().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Int("cost", session.Cost).
		Msg("User joined session")

	return nil
}

// Leave withdraws a user and refunds the cost recorded at join time, so a
// host changing the price mid-flight cannot skew the refund. Sessions seeded
// before cost recording existed fall back to the current cost.
func (s *sessionService) Leave(ctx context.Context, sessionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return ErrSessionNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !session.IsParticipant(userID) {
		return ErrNotEnrolled
	}

	refund := session.Cost
	if paid, ok := session.PaidCosts[userID]; ok {
		refund = paid
		delete(session.PaidCosts, userID)
	}

	participants := session.Participants[:0]
	for _, id := range session.Participants {
		if id != userID {
			participants = append(participants, id)
		}
	}
	session.Participants = participants
	session.CurrentParticipants = len(session.Participants)

	user.Points += refund
	if user.SessionsAttended > 0 {
		user.SessionsAttended--
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	logger.Debug().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Int("refund", refund).
		Msg("User left session")

	return nil
}

// GetMeetingRoom returns the video-call context. Only the host and enrolled
// participants may see it.
func (s *sessionService) GetMeetingRoom(ctx context.Context, sessionID, userID string) (*models.MeetingRoom, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	if session.HostID != userID && !session.IsParticipant(userID) {
		return nil, ErrRoomAccessDenied
	}

	return &models.MeetingRoom{
		MeetingRoomID:  session.MeetingRoomID,
		MeetingStarted: session.MeetingStarted,
		SessionTitle:   session.Title,
		HostID:         session.HostID,
		Participants:   session.Participants,
	}, nil
}

// StartMeeting opens the room. Idempotent: starting an already started
// meeting changes nothing.
func (s *sessionService) StartMeeting(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if session.HostID != userID {
		return nil, ErrNotHost
	}
	if session.MeetingStarted {
		return session, nil
	}

	session.MeetingStarted = true
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return session, nil
}

// EndMeeting closes the room and marks the session completed, so rooms do
// not stay open indefinitely. Idempotent like StartMeeting.
func (s *sessionService) EndMeeting(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if session.HostID != userID {
		return nil, ErrNotHost
	}
	if session.IsCompleted && !session.MeetingStarted {
		return session, nil
	}

	session.MeetingStarted = false
	session.IsCompleted = true
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return session, nil
}

func (s *sessionService) enrich(ctx context.Context, session *models.Session) *models.SessionResponse {
	response := &models.SessionResponse{Session: *session}

	host, err := s.userRepo.GetByID(ctx, session.HostID)
	if err == nil {
		response.Host = &models.HostSummary{
			ID:            host.ID,
			FullName:      host.FullName,
			Username:      host.Username,
			AverageRating: host.AverageRating,
		}
	}
	return response
}

// makeMeetingRoomID derives a stable room key from the session id and a
// normalized form of the title, e.g. "room-3f2a91c4-introduction-to-react".
func makeMeetingRoomID(id, title string) string {
	slug := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '-'
	}, strings.ToLower(title))

	return fmt.Sprintf("room-%s-%s", strings.SplitN(id, "-", 2)[0], slug)
}

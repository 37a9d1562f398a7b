package seed

import (
	"context"
	"time"

	"skillswap-backend/internal/common/logger"
	sessionmodels "skillswap-backend/internal/features/session/models"
	sessionrepo "skillswap-backend/internal/features/session/repository"
	usermodels "skillswap-backend/internal/features/user/models"
	userrepo "skillswap-backend/internal/features/user/repository"
)

// Load populates the store with demo users and sessions so the configured
// current user resolves out of the box. A no-op when the data is already
// there, so restarts against a durable backend do not reset balances.
func Load(ctx context.Context, users userrepo.UserRepository, sessions sessionrepo.SessionRepository) error {
	if _, err := users.GetByID(ctx, "user-1"); err == nil {
		logger.Debug().Msg("Demo data already present, skipping seed")
		return nil
	}

	now := time.Now()

	demoUsers := []*usermodels.User{
		{
			ID:               "user-1",
			Username:         "testuser",
			Email:            "test@example.com",
			FullName:         "Test User",
			Bio:              "Passionate software developer with 5 years of experience in React and JavaScript. Love teaching and helping others learn to code!",
			Points:           15,
			TeachableSkills:  []string{"JavaScript", "React", "UI Design"},
			LearningSkills:   []string{"Node.js", "TypeScript", "Python"},
			SessionsHosted:   3,
			SessionsAttended: 7,
			AverageRating:    48,
			CreatedAt:        now,
		},
		{
			ID:               "user-2",
			Username:         "janesmitty",
			Email:            "jane@example.com",
			FullName:         "Jane Smith",
			Bio:              "Frontend developer and UI/UX enthusiast",
			Points:           25,
			TeachableSkills:  []string{"UI/UX Design", "Figma", "Design Systems"},
			LearningSkills:   []string{"React", "Vue.js"},
			SessionsHosted:   5,
			SessionsAttended: 3,
			AverageRating:    50,
			CreatedAt:        now,
		},
		{
			ID:               "user-3",
			Username:         "mikejohnson",
			Email:            "mike@example.com",
			FullName:         "Mike Johnson",
			Bio:              "Data scientist and Python developer",
			Points:           18,
			TeachableSkills:  []string{"Python", "Data Science", "Machine Learning"},
			LearningSkills:   []string{"JavaScript", "Web Development"},
			SessionsHosted:   4,
			SessionsAttended: 6,
			AverageRating:    46,
			CreatedAt:        now,
		},
	}

	demoSessions := []*sessionmodels.Session{
		{
			ID:                  "session-1",
			Title:               "Introduction to React",
			Description:         "Learn the fundamentals of React development and build your first interactive components. Perfect for beginners!",
			HostID:              "user-2",
			Category:            "Programming",
			Level:               sessionmodels.LevelBeginner,
			MaxParticipants:     10,
			CurrentParticipants: 2,
			Cost:                2,
			Datetime:            now.Add(72 * time.Hour),
			Duration:            90,
			Participants:        []string{"user-1", "user-3"},
			PaidCosts:           map[string]int{"user-1": 2, "user-3": 2},
			Rating:              45,
			RatingCount:         3,
			MeetingRoomID:       "room-session-1-intro-react",
			CreatedAt:           now,
		},
		{
			ID:                  "session-2",
			Title:               "UI/UX Design Principles",
			Description:         "Master the fundamentals of user interface and user experience design. Learn design thinking and prototyping.",
			HostID:              "user-2",
			Category:            "Design",
			Level:               sessionmodels.LevelIntermediate,
			MaxParticipants:     8,
			CurrentParticipants: 1,
			Cost:                3,
			Datetime:            now.Add(96 * time.Hour),
			Duration:            120,
			Participants:        []string{"user-1"},
			PaidCosts:           map[string]int{"user-1": 3},
			Rating:              48,
			RatingCount:         5,
			MeetingRoomID:       "room-session-2-ux-design",
			CreatedAt:           now,
		},
		{
			ID:                  "session-3",
			Title:               "Python for Data Science",
			Description:         "Introduction to Python programming for data analysis. Learn pandas, numpy, and matplotlib basics.",
			HostID:              "user-3",
			Category:            "Data Science",
			Level:               sessionmodels.LevelIntermediate,
			MaxParticipants:     12,
			CurrentParticipants: 0,
			Cost:                4,
			Datetime:            now.Add(120 * time.Hour),
			Duration:            150,
			Participants:        []string{},
			Rating:              46,
			RatingCount:         8,
			MeetingRoomID:       "room-session-3-python-data",
			CreatedAt:           now,
		},
		{
			ID:                  "session-4",
			Title:               "Advanced React Patterns",
			Description:         "Learn advanced React patterns including render props, higher-order components, and compound components.",
			HostID:              "user-1",
			Category:            "Programming",
			Level:               sessionmodels.LevelAdvanced,
			MaxParticipants:     6,
			CurrentParticipants: 2,
			Cost:                5,
			Datetime:            now.Add(168 * time.Hour),
			Duration:            180,
			Participants:        []string{"user-2", "user-3"},
			PaidCosts:           map[string]int{"user-2": 5, "user-3": 5},
			Rating:              50,
			RatingCount:         2,
			MeetingRoomID:       "room-session-4-advanced-react",
			CreatedAt:           now,
		},
	}

	for _, user := range demoUsers {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
	}
	for _, session := range demoSessions {
		if err := sessions.Create(ctx, session); err != nil {
			return err
		}
	}

	logger.Info().
		Int("users", len(demoUsers)).
		Int("sessions", len(demoSessions)).
		Msg("Demo data seeded")

	return nil
}

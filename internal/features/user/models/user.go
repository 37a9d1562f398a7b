package models

import "time"

// User is the full user record held by the store.
//
// Points is the in-app currency: debited when joining a session, credited
// back on leaving. AverageRating is stored as rating x 10 so one decimal
// place survives integer storage (48 means 4.8).
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username" example:"janesmitty"`
	Email            string    `json:"email" example:"jane@example.com"`
	FullName         string    `json:"fullName" example:"Jane Smith"`
	Bio              string    `json:"bio"`
	Points           int       `json:"points" example:"20"`
	TeachableSkills  []string  `json:"teachableSkills"`
	LearningSkills   []string  `json:"learningSkills"`
	SessionsHosted   int       `json:"sessionsHosted"`
	SessionsAttended int       `json:"sessionsAttended"`
	AverageRating    int       `json:"averageRating" example:"48"`
	CreatedAt        time.Time `json:"createdAt"`
}

// UserCreate carries the fields a caller may set when registering a user.
// Everything else is defaulted by the service.
type UserCreate struct {
	Username        string   `json:"username" binding:"required"`
	Email           string   `json:"email" binding:"required"`
	FullName        string   `json:"fullName" binding:"required"`
	Bio             string   `json:"bio"`
	Points          *int     `json:"points"`
	TeachableSkills []string `json:"teachableSkills"`
	LearningSkills  []string `json:"learningSkills"`
}

// UserUpdate is a named profile-update command. Only the listed fields are
// mutable through it; identity, points and counters are owned by the ledger.
// Nil means "leave unchanged"; a non-nil skill list replaces the whole list.
type UserUpdate struct {
	FullName        *string   `json:"fullName"`
	Bio             *string   `json:"bio"`
	TeachableSkills *[]string `json:"teachableSkills"`
	LearningSkills  *[]string `json:"learningSkills"`
}

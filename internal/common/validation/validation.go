package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxUsernameLength    = 32
	MaxFullNameLength    = 100
	MaxBioLength         = 500
	MaxSkillLength       = 64
	MaxSkills            = 20

	MinUsernameLength = 3
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateTitle checks a session title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title cannot exceed %d characters", MaxTitleLength)
	}
	return nil
}

// ValidateDescription checks a session description.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("description cannot be empty")
	}
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description cannot exceed %d characters", MaxDescriptionLength)
	}
	return nil
}

// ValidateUsername checks an account username.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(username) < MinUsernameLength {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return fmt.Errorf("username cannot exceed %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must contain only letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail checks an email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// ValidateFullName checks a user display name.
func ValidateFullName(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return fmt.Errorf("full name cannot be empty")
	}
	if len(fullName) > MaxFullNameLength {
		return fmt.Errorf("full name cannot exceed %d characters", MaxFullNameLength)
	}
	return nil
}

// ValidateBio checks a profile bio. Empty is allowed.
func ValidateBio(bio string) error {
	if len(bio) > MaxBioLength {
		return fmt.Errorf("bio cannot exceed %d characters", MaxBioLength)
	}
	return nil
}

// ValidateSkills checks a skill list.
func ValidateSkills(skills []string) error {
	if len(skills) > MaxSkills {
		return fmt.Errorf("cannot list more than %d skills", MaxSkills)
	}
	for _, skill := range skills {
		if strings.TrimSpace(skill) == "" {
			return fmt.Errorf("skill cannot be empty")
		}
		if len(skill) > MaxSkillLength {
			return fmt.Errorf("skill cannot exceed %d characters", MaxSkillLength)
		}
	}
	return nil
}

// ValidateLevel checks a session difficulty level.
func ValidateLevel(level string) error {
	switch level {
	case "beginner", "intermediate", "advanced":
		return nil
	}
	return fmt.Errorf("invalid level: %s. Valid levels: beginner, intermediate, advanced", level)
}

// ValidatePositiveInt checks that a number is positive.
func ValidatePositiveInt(value int, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}

// ValidateNonNegativeInt checks that a number is not negative.
func ValidateNonNegativeInt(value int, fieldName string) error {
	if value < 0 {
		return fmt.Errorf("%s cannot be negative", fieldName)
	}
	return nil
}

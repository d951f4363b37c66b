package domain

import "time"

type UserType string

const (
	UserTypeStudents       UserType = "students"
	UserTypeGraduates      UserType = "graduates"
	UserTypeProfessionals  UserType = "professionals"
	UserTypeCareerChangers UserType = "career-changers"
)

func (t UserType) Valid() bool {
	switch t {
	case "", UserTypeStudents, UserTypeGraduates, UserTypeProfessionals, UserTypeCareerChangers:
		return true
	}
	return false
}

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

func (e ExperienceLevel) Valid() bool {
	switch e {
	case "", ExperienceEntry, ExperienceMid, ExperienceSenior:
		return true
	}
	return false
}

// CareerProfile es lo que el matcher y el calculo de brechas leen del usuario.
type CareerProfile struct {
	UserType   UserType        `json:"user_type,omitempty"`
	Experience ExperienceLevel `json:"experience,omitempty"`
	Interests  []string        `json:"interests"`
	Skills     []string        `json:"skills"`
}

type User struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	DisplayName  string        `json:"display_name,omitempty"`
	PasswordHash string        `json:"-"`
	Profile      CareerProfile `json:"profile"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

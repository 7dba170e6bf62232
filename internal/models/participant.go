package models

import "fmt"

// Role is the role carried in an access token.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdviser Role = "adviser"
	RoleAdmin   Role = "admin"
)

// Participant is one side of a conversation. Only students and advisers
// can be participants; the fields are unexported so a Participant can only
// be built through the constructors below.
type Participant struct {
	role Role
	id   string
}

func NewStudent(id string) Participant { return Participant{role: RoleStudent, id: id} }

func NewAdviser(id string) Participant { return Participant{role: RoleAdviser, id: id} }

// ParticipantFromRole builds a Participant from an authenticated principal.
func ParticipantFromRole(role Role, id string) (Participant, error) {
	if id == "" {
		return Participant{}, fmt.Errorf("participant id is empty")
	}
	switch role {
	case RoleStudent:
		return NewStudent(id), nil
	case RoleAdviser:
		return NewAdviser(id), nil
	}
	return Participant{}, fmt.Errorf("role %q cannot take part in conversations", role)
}

func (p Participant) Role() Role { return p.role }

func (p Participant) ID() string { return p.id }

func (p Participant) IsZero() bool { return p.role == "" }

// Counterpart returns the participant with the opposite role.
func (p Participant) Counterpart(id string) Participant {
	if p.role == RoleStudent {
		return NewAdviser(id)
	}
	return NewStudent(id)
}

func (p Participant) String() string {
	return string(p.role) + ":" + p.id
}

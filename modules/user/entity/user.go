package entity

import (
	"time"

	"hiringdesk/core/entity"

	"github.com/google/uuid"
)

// Role gates route access. Clients book, interviewers evaluate, recruiters
// run the pipeline.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleRecruiter   Role = "recruiter"
	RoleInterviewer Role = "interviewer"
	RoleClient      Role = "client"
)

type User struct {
	Email           string     `db:"email" json:"email"`
	Name            string     `db:"name" json:"name"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	Role            Role       `db:"role" json:"role"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	OrganizationID  *uuid.UUID `db:"organization_id" json:"organization_id,omitempty"`
	EmailVerifiedAt *time.Time `db:"email_verified_at" json:"email_verified_at,omitempty"`
	ArchivedAt      *time.Time `db:"archived_at" json:"archived_at,omitempty"`
	entity.BaseEntity
}

// Package profile stores the user documents behind the profile screen and
// the sign-up requests awaiting approval.
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableflip.dev/portal/pkg/session"
)

// ErrNotFound is returned when no user document matches.
var ErrNotFound = errors.New("profile: not found")

// User is the stored user document.
type User struct {
	DocID            string    `json:"docID"`
	UID              string    `json:"uid,omitempty"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	GapID            string    `json:"gapID,omitempty"`
	EnrolledYear     string    `json:"enrolledYear,omitempty"`
	CurrentTrimester string    `json:"currentTrimester,omitempty"`
	Job              string    `json:"job,omitempty"`
	Clubs            []string  `json:"clubs,omitempty"`
	ProfileImage     string    `json:"profileImage,omitempty"`
	Approved         bool      `json:"approved"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Profile returns the session view of u.
func (u User) Profile() session.Profile {
	clubs := make([]string, len(u.Clubs))
	copy(clubs, u.Clubs)
	return session.Profile{
		Name:             u.Name,
		Role:             u.Role,
		Email:            u.Email,
		Phone:            u.Phone,
		Address:          u.Address,
		GapID:            u.GapID,
		EnrolledYear:     u.EnrolledYear,
		CurrentTrimester: u.CurrentTrimester,
		Job:              u.Job,
		Clubs:            clubs,
		ProfileImage:     u.ProfileImage,
	}
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	Name             *string
	Role             *string
	Phone            *string
	Address          *string
	EnrolledYear     *string
	CurrentTrimester *string
	Job              *string
	Clubs            []string
	ProfileImage     *string
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Role == nil && p.Phone == nil && p.Address == nil &&
		p.EnrolledYear == nil && p.CurrentTrimester == nil && p.Job == nil &&
		p.Clubs == nil && p.ProfileImage == nil
}

// Apply writes the set fields of p onto u.
func (p Patch) Apply(u *User) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.Name, p.Name)
	set(&u.Role, p.Role)
	set(&u.Phone, p.Phone)
	set(&u.Address, p.Address)
	set(&u.EnrolledYear, p.EnrolledYear)
	set(&u.CurrentTrimester, p.CurrentTrimester)
	set(&u.Job, p.Job)
	set(&u.ProfileImage, p.ProfileImage)
	if p.Clubs != nil {
		u.Clubs = append([]string{}, p.Clubs...)
	}
}

// SignupRequest is what a prospective student submits.
type SignupRequest struct {
	Name             string
	Email            string
	Phone            string
	Address          string
	GapID            string
	EnrolledYear     string
	CurrentTrimester string
	Job              string
	Clubs            []string
}

// ParseClubs splits a comma separated list, dropping blanks.
func ParseClubs(raw string) []string {
	out := make([]string, 0)
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Repository is the document database seen by the portal.
type Repository interface {
	// GetOrCreate returns the user document for uid (or email, backfilling
	// uid), creating an unapproved one from email and name if absent.
	GetOrCreate(ctx context.Context, uid, email, name string) (User, error)
	// Get finds the user document for uid, falling back to email. A
	// document found only by email gets uid backfilled.
	Get(ctx context.Context, uid, email string) (User, error)
	// Update applies patch to the document of uid.
	Update(ctx context.Context, uid string, patch Patch) (User, error)
	// CreateSignupRequest stores a pending-approval user document.
	CreateSignupRequest(ctx context.Context, req SignupRequest) (User, error)
	// SignupRequests lists documents not yet approved.
	SignupRequests(ctx context.Context) ([]User, error)
	// Approve marks the document for email approved.
	Approve(ctx context.Context, email string) (User, error)
}

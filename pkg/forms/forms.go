package forms

import "time"

// LoginForm is the email/password sign-in form.
type LoginForm struct {
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"notblank"`
}

// SignupForm requests an account. Clubs is comma separated.
type SignupForm struct {
	Name             string `json:"name" validate:"notblank"`
	Email            string `json:"email" validate:"notblank,email"`
	GapID            string `json:"gapID" validate:"notblank"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	EnrolledYear     string `json:"enrolledYear"`
	CurrentTrimester string `json:"currentTrimester"`
	Job              string `json:"job"`
	Clubs            string `json:"clubs"`
}

// ReminderForm creates or edits a reminder. Day supplies the date and Clock
// the time of day.
type ReminderForm struct {
	Title       string     `json:"title" validate:"notblank"`
	Day         *time.Time `json:"day" validate:"required"`
	Clock       *time.Time `json:"time" validate:"required"`
	Description string     `json:"description"`
}

// ProfileForm edits the signed-in user's profile. Empty fields are left
// unchanged.
type ProfileForm struct {
	Name             string `json:"name"`
	Phone            string `json:"phone" validate:"omitempty,max=32"`
	Address          string `json:"address"`
	EnrolledYear     string `json:"enrolledYear" validate:"omitempty,numeric,len=4"`
	CurrentTrimester string `json:"currentTrimester"`
	Job              string `json:"job"`
	Clubs            string `json:"clubs"`
}

// MeetingForm books a meeting with a professor.
type MeetingForm struct {
	Name        string `json:"name" validate:"notblank"`
	Professor   string `json:"professor" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

// FeedbackForm is the student experience survey.
type FeedbackForm struct {
	Teacher     string `json:"teacher" validate:"notblank"`
	Learnings   string `json:"learnings" validate:"notblank"`
	Suggestions string `json:"suggestions"`
}

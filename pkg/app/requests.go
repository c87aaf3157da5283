package app

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/portal/pkg/forms"
	"tableflip.dev/portal/pkg/profile"
	"tableflip.dev/portal/pkg/router"
)

// Confirmation texts shown after a successful submission.
const (
	SignupSentMessage = "Your sign up request has been sent. Please contact the administrator."
)

// SubmitSignup stores a sign-up request for administrator approval and, when
// submitted from the sign-up screen, returns to login. If the user left the
// screen while the request was in flight, the stored request is returned
// with ErrStale and the screen is left alone.
func (p *Portal) SubmitSignup(ctx context.Context, form forms.SignupForm) (profile.User, error) {
	if err := forms.Validate(form); err != nil {
		return profile.User{}, err
	}
	if p.Profiles == nil {
		return profile.User{}, ErrNoProfiles
	}
	screen, visit := p.Router.Current(), p.Router.Visit()
	u, err := p.Profiles.CreateSignupRequest(ctx, profile.SignupRequest{
		Name:             form.Name,
		Email:            form.Email,
		Phone:            form.Phone,
		Address:          form.Address,
		GapID:            form.GapID,
		EnrolledYear:     form.EnrolledYear,
		CurrentTrimester: form.CurrentTrimester,
		Job:              form.Job,
		Clubs:            profile.ParseClubs(form.Clubs),
	})
	if err != nil {
		return profile.User{}, err
	}
	if !p.Router.Active(screen, visit) {
		return u, ErrStale
	}
	if screen == router.SignupMessage {
		p.Router.Back()
	}
	return u, nil
}

// BookMeeting validates a meeting request and returns the confirmation.
// Nothing is sent anywhere.
func (p *Portal) BookMeeting(form forms.MeetingForm) (string, error) {
	if err := forms.Validate(form); err != nil {
		return "", err
	}
	msg := fmt.Sprintf("Your meeting with %s has been requested.", strings.TrimSpace(form.Professor))
	if p.Router.Current() == router.BookMeeting {
		p.Router.Back()
	}
	return msg, nil
}

// SubmitFeedback validates the student experience form and returns the
// summary shown to the student.
func (p *Portal) SubmitFeedback(form forms.FeedbackForm) (string, error) {
	if err := forms.Validate(form); err != nil {
		return "", err
	}
	return fmt.Sprintf("Teacher: %s\nMajor Learnings: %s\nSuggestions: %s",
		strings.TrimSpace(form.Teacher), strings.TrimSpace(form.Learnings), strings.TrimSpace(form.Suggestions)), nil
}

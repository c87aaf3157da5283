// Package router holds the single current-screen state machine of the portal.
package router

import "strings"

// Screen identifies one of the portal screens.
type Screen string

const (
	// Splash is the initial screen; it leaves on its own after the dwell time.
	Splash Screen = "splash"
	// Home is the landing screen and the fallback for unknown states.
	Home              Screen = "home"
	Login             Screen = "login"
	SignupMessage     Screen = "signupMessage"
	HomeMenu          Screen = "homemenu"
	Tasks             Screen = "tasks"
	BookMeeting       Screen = "bookMeeting"
	Profile           Screen = "profile"
	Classes           Screen = "classes"
	Clubs             Screen = "clubs"
	Settings          Screen = "settings"
	About             Screen = "about"
	Reminders         Screen = "reminders"
	StudentExperience Screen = "studentExperience"
	Horoscope         Screen = "horoscope"
	JobOffers         Screen = "jobOffers"
)

// AllScreens returns the fixed screen set in menu order.
func AllScreens() []Screen {
	return []Screen{
		Splash,
		Home,
		Login,
		SignupMessage,
		HomeMenu,
		Tasks,
		BookMeeting,
		Profile,
		Classes,
		Clubs,
		Settings,
		About,
		Reminders,
		StudentExperience,
		Horoscope,
		JobOffers,
	}
}

// InnerScreens are the screens reachable from the home menu.
func InnerScreens() []Screen {
	return []Screen{
		Tasks,
		BookMeeting,
		Profile,
		Classes,
		Clubs,
		Reminders,
		StudentExperience,
		JobOffers,
		Horoscope,
		Settings,
		About,
	}
}

// Valid reports whether s is part of the fixed screen set.
func (s Screen) Valid() bool {
	for _, candidate := range AllScreens() {
		if candidate == s {
			return true
		}
	}
	return false
}

// Resolve maps any value outside the screen set to Home.
func Resolve(s Screen) Screen {
	if s.Valid() {
		return s
	}
	return Home
}

// ParseScreen converts raw input into a Screen. Matching ignores case so
// "homeMenu" and "homemenu" resolve the same way; anything else is Home.
func ParseScreen(raw string) Screen {
	trimmed := strings.TrimSpace(raw)
	for _, candidate := range AllScreens() {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate
		}
	}
	return Home
}

// BackFor returns the back target each screen is entered with.
func BackFor(s Screen) Screen {
	switch Resolve(s) {
	case Splash, Home:
		return ""
	case Login:
		return Home
	case SignupMessage:
		return Login
	case HomeMenu:
		return Home
	default:
		return HomeMenu
	}
}

// Title is the human label used by menus.
func (s Screen) Title() string {
	switch s {
	case Splash:
		return "Splash"
	case Home:
		return "Home"
	case Login:
		return "Login"
	case SignupMessage:
		return "Sign Up"
	case HomeMenu:
		return "Home Menu"
	case Tasks:
		return "Tasks"
	case BookMeeting:
		return "Book Meeting"
	case Profile:
		return "Profile"
	case Classes:
		return "Classes"
	case Clubs:
		return "Clubs"
	case Settings:
		return "Settings"
	case About:
		return "About"
	case Reminders:
		return "Reminders"
	case StudentExperience:
		return "Student Experience"
	case Horoscope:
		return "Horoscope"
	case JobOffers:
		return "Job Offers"
	default:
		return string(s)
	}
}

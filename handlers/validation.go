package handlers

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"eldercare-service/models"
)

// FieldError is one validation failure. Validators always run every rule and
// collect one entry per invalid field; they never stop at the first failure.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	fullNameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func checkUsername(username string, errs []FieldError) []FieldError {
	if len(username) < 3 || len(username) > 30 {
		return append(errs, FieldError{"username", "Username must be between 3 and 30 characters", username})
	}
	if !usernameRe.MatchString(username) {
		return append(errs, FieldError{"username", "Username can only contain letters, numbers, and underscores", username})
	}
	return errs
}

func checkEmail(email string, errs []FieldError) []FieldError {
	if !validEmail(email) {
		return append(errs, FieldError{"email", "Please provide a valid email address", email})
	}
	return errs
}

// checkPassword validates length and character classes. The value is never
// echoed back in the error entry.
func checkPassword(password string, errs []FieldError) []FieldError {
	if len(password) < 6 {
		return append(errs, FieldError{Field: "password", Message: "Password must be at least 6 characters long"})
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return append(errs, FieldError{Field: "password", Message: "Password must contain at least one lowercase letter, one uppercase letter, and one number"})
	}
	return errs
}

func checkFullName(fullName string, errs []FieldError) []FieldError {
	trimmed := strings.TrimSpace(fullName)
	if len(trimmed) < 2 || len(trimmed) > 100 {
		return append(errs, FieldError{"fullName", "Full name must be between 2 and 100 characters", fullName})
	}
	if !fullNameRe.MatchString(trimmed) {
		return append(errs, FieldError{"fullName", "Full name can only contain letters and spaces", fullName})
	}
	return errs
}

func checkAge(age int, errs []FieldError) []FieldError {
	if age < 1 || age > 150 {
		return append(errs, FieldError{"age", "Age must be between 1 and 150", age})
	}
	return errs
}

func checkGender(gender string, errs []FieldError) []FieldError {
	if gender != "Male" && gender != "Female" && gender != "Other" {
		return append(errs, FieldError{"gender", "Gender must be Male, Female, or Other", gender})
	}
	return errs
}

func checkPrimaryCaregiver(name string, errs []FieldError) []FieldError {
	if len(strings.TrimSpace(name)) > 100 {
		return append(errs, FieldError{"primaryCaregiver", "Primary caregiver name cannot exceed 100 characters", name})
	}
	return errs
}

// ValidateSignup checks every signup field and returns all failures
func ValidateSignup(req models.SignupRequest) []FieldError {
	var errs []FieldError
	errs = checkUsername(req.Username, errs)
	errs = checkEmail(req.Email, errs)
	errs = checkPassword(req.Password, errs)
	errs = checkFullName(req.FullName, errs)
	if req.Age != nil {
		errs = checkAge(*req.Age, errs)
	}
	if req.Gender != nil {
		errs = checkGender(*req.Gender, errs)
	}
	if req.PrimaryCaregiver != nil {
		errs = checkPrimaryCaregiver(*req.PrimaryCaregiver, errs)
	}
	return errs
}

// ValidateLogin only checks presence; credential failures are the handler's job
func ValidateLogin(req models.LoginRequest) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(req.Identifier) == "" {
		errs = append(errs, FieldError{Field: "identifier", Message: "Identifier is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

// ValidateProfileUpdate checks only the fields present in the request
func ValidateProfileUpdate(req models.UpdateProfileRequest) []FieldError {
	var errs []FieldError
	if req.Username != "" {
		errs = checkUsername(req.Username, errs)
	}
	if req.Email != "" {
		errs = checkEmail(req.Email, errs)
	}
	if req.FullName != "" {
		errs = checkFullName(req.FullName, errs)
	}
	if req.Age != nil {
		errs = checkAge(*req.Age, errs)
	}
	if req.Gender != nil {
		errs = checkGender(*req.Gender, errs)
	}
	if req.PrimaryCaregiver != nil {
		errs = checkPrimaryCaregiver(*req.PrimaryCaregiver, errs)
	}
	return errs
}

// ValidateSettingsPatch checks enum and length constraints on a settings patch
func ValidateSettingsPatch(p models.SettingsPatch) []FieldError {
	var errs []FieldError
	if p.Privacy != nil && p.Privacy.ProfileVisibility != nil {
		if v := *p.Privacy.ProfileVisibility; v != "public" && v != "private" {
			errs = append(errs, FieldError{"privacy.profileVisibility", "Profile visibility must be public or private", v})
		}
	}
	if p.Preferences != nil {
		if p.Preferences.Language != nil {
			if l := *p.Preferences.Language; len(l) < 2 || len(l) > 5 {
				errs = append(errs, FieldError{"preferences.language", "Language code must be between 2 and 5 characters", l})
			}
		}
		if p.Preferences.Timezone != nil {
			if tz := *p.Preferences.Timezone; len(tz) < 3 || len(tz) > 50 {
				errs = append(errs, FieldError{"preferences.timezone", "Timezone must be between 3 and 50 characters", tz})
			}
		}
		if p.Preferences.Theme != nil {
			if t := *p.Preferences.Theme; t != "light" && t != "dark" {
				errs = append(errs, FieldError{"preferences.theme", "Theme must be light or dark", t})
			}
		}
	}
	return errs
}

// ValidateMoodEntry checks a new mood entry
func ValidateMoodEntry(req models.CreateMoodEntryRequest) []FieldError {
	var errs []FieldError
	if !models.MoodLabels[req.Mood] {
		errs = append(errs, FieldError{"mood", "Mood must be happy, okay, neutral, sad, or upset", req.Mood})
	}
	return errs
}

// ValidateJournalEntry checks a new journal entry
func ValidateJournalEntry(req models.CreateJournalEntryRequest) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "Title is required"})
	}
	if strings.TrimSpace(req.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "Content is required"})
	}
	return errs
}

// ValidateScheduleItem checks a new schedule item
func ValidateScheduleItem(req models.CreateScheduleItemRequest) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(req.Time) == "" {
		errs = append(errs, FieldError{Field: "time", Message: "Time is required"})
	}
	if strings.TrimSpace(req.Activity) == "" {
		errs = append(errs, FieldError{Field: "activity", Message: "Activity is required"})
	}
	return errs
}

// ValidateAlert checks a new alert
func ValidateAlert(req models.CreateAlertRequest) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(req.Message) == "" {
		errs = append(errs, FieldError{Field: "message", Message: "Message is required"})
	}
	if !models.AlertUrgencies[req.Urgency] {
		errs = append(errs, FieldError{"urgency", "Urgency must be low, medium, or high", req.Urgency})
	}
	return errs
}

// ValidateMetric checks a new health metric reading
func ValidateMetric(req models.RecordMetricRequest) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(req.Label) == "" {
		errs = append(errs, FieldError{Field: "label", Message: "Label is required"})
	}
	if strings.TrimSpace(req.Value) == "" {
		errs = append(errs, FieldError{Field: "value", Message: "Value is required"})
	}
	if !models.MetricStatuses[req.Status] {
		errs = append(errs, FieldError{"status", "Status must be normal, attention, or alert", req.Status})
	}
	return errs
}

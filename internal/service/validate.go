package service

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Shivanand-hulikatti/eventease/internal/model"
)

const (
	maxNameLen        = 100
	maxLocationLen    = 200
	maxDescriptionLen = 1000
	minPriceCents     = 1
	maxPriceCents     = 1_000_000
	minSpots          = 1
	maxSpots          = 1000
	maxEmailLen       = 100
	minPasswordLen    = 8
	maxPasswordLen    = 100
	passwordSpecials  = "@$!%*?&"
)

var (
	fullNamePattern = regexp.MustCompile(`^[a-zA-Z\s]*$`)
	phonePattern    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// ValidateEvent checks an event create or update payload and returns a
// *model.ValidationError listing every problem.
func ValidateEvent(req *model.EventRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)

	var problems []string
	requireText := func(field, value string, limit int) {
		switch {
		case value == "":
			problems = append(problems, field+" is required")
		case utf8.RuneCountInString(value) > limit:
			problems = append(problems, field+" is too long")
		}
	}
	requireText("name", req.Name, maxNameLen)
	if req.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	requireText("location", req.Location, maxLocationLen)
	requireText("description", req.Description, maxDescriptionLen)
	if req.PriceCents < minPriceCents || req.PriceCents > maxPriceCents {
		problems = append(problems, "price must be between 0.01 and 10000.00")
	}
	if req.AvailableSpots < minSpots || req.AvailableSpots > maxSpots {
		problems = append(problems, "available spots must be between 1 and 1000")
	}
	if req.Category == "" {
		problems = append(problems, "category is required")
	}

	if len(problems) > 0 {
		return &model.ValidationError{Problems: problems}
	}
	return nil
}

// ValidateLogin checks the registration form used to start a session.
func ValidateLogin(req *model.LoginRequest) error {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	var problems []string
	switch {
	case req.FullName == "":
		problems = append(problems, "full name is required")
	case utf8.RuneCountInString(req.FullName) > maxNameLen:
		problems = append(problems, "full name cannot exceed 100 characters")
	case !fullNamePattern.MatchString(req.FullName):
		problems = append(problems, "full name can only contain letters and spaces")
	}

	switch {
	case req.Email == "":
		problems = append(problems, "email is required")
	case len(req.Email) > maxEmailLen:
		problems = append(problems, "email cannot exceed 100 characters")
	case !isValidEmail(req.Email):
		problems = append(problems, "invalid email address")
	}

	switch {
	case req.PhoneNumber == "":
		problems = append(problems, "phone number is required")
	case !phonePattern.MatchString(req.PhoneNumber):
		problems = append(problems, "invalid phone number format")
	}

	if msg := passwordProblem(req.Password); msg != "" {
		problems = append(problems, msg)
	}
	if req.ConfirmPassword != req.Password {
		problems = append(problems, "passwords do not match")
	}
	if !req.TermsAccepted {
		problems = append(problems, "terms must be accepted")
	}

	if len(problems) > 0 {
		return &model.ValidationError{Problems: problems}
	}
	return nil
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	_, domain, _ := strings.Cut(email, "@")
	return strings.Contains(domain, ".")
}

// passwordProblem returns "" for an acceptable password. Passwords use only
// ASCII letters, digits and the special set, and need one of each class.
func passwordProblem(pw string) string {
	if pw == "" {
		return "password is required"
	}
	if len(pw) < minPasswordLen || len(pw) > maxPasswordLen {
		return "password must be between 8 and 100 characters"
	}
	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case r > unicode.MaxASCII:
			return "password contains an unsupported character"
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return "password contains an unsupported character"
		}
	}
	if !lower || !upper || !digit || !special {
		return "password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	}
	return ""
}

/*
Package authflow implements the sign-in and registration screen state.

The flow is UI-agnostic: a frontend renders its State snapshot and calls
the mutators, and the flow owns validation order, error wording, and the
post-submit timing. All user-facing text is Russian, matching the product.
*/
package authflow

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/aizatop/alive/internal/client"
	"github.com/aizatop/alive/internal/pkg/errs"
)

// Mode selects which form the screen shows.
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// Post-submit delays: a successful login redirects after the success text
// has been visible for a moment, and a successful registration flips back
// to the login form a little later.
const (
	LoginRedirectDelay  = 2 * time.Second
	RegisterRevertDelay = 3 * time.Second
)

const (
	minUsernameRunes = 3
	minPasswordRunes = 8
)

// errorPrefix marks every failure text shown on this screen.
const errorPrefix = "❌ "

// Validation and feedback texts, in the order the checks run.
const (
	msgFillAllFields         = "Заполните все поля"
	msgFillRequiredFields    = "Заполните все обязательные поля"
	msgUsernameTooShort      = "Имя пользователя должно быть минимум 3 символа"
	msgInvalidEmail          = "Введите корректный email"
	msgPasswordTooShort      = "Пароль должен быть минимум 8 символов"
	msgPasswordsDiffer       = "Пароли не совпадают"
	msgInvalidCredentials    = "Неверный email или пароль"
	msgEmailTaken            = "Этот email уже зарегистрирован"
	msgLoginSucceeded        = "✅ Вход успешен! Перенаправление..."
	msgRegistrationSucceeded = "✅ Аккаунт создан! Проверьте email для подтверждения."
)

// HomePath is where a fresh session lands.
const HomePath = "/home"

// Authenticator is the slice of the backend facade the flow needs.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*client.Session, *errs.CustomError)
	SignUp(ctx context.Context, email, password, username, country string) (*client.Session, *errs.CustomError)
}

// State is a render-ready snapshot of the screen.
type State struct {
	Mode       Mode
	Submitting bool

	Email           string
	Password        string
	ConfirmPassword string
	Username        string
	Country         string

	ErrorText   string
	SuccessText string
}

// Flow drives the auth screen. Safe for concurrent use.
type Flow struct {
	mu   sync.Mutex
	auth Authenticator

	mode       Mode
	submitting bool

	email           string
	password        string
	confirmPassword string
	username        string
	country         string

	errorText   string
	successText string

	navigate func(path string)

	redirectDelay time.Duration
	revertDelay   time.Duration
}

// NewFlow builds a login-mode flow. navigate is invoked with the target
// path after a successful login; it may be nil.
func NewFlow(auth Authenticator, navigate func(path string)) *Flow {
	return &Flow{
		auth:          auth,
		mode:          ModeLogin,
		navigate:      navigate,
		redirectDelay: LoginRedirectDelay,
		revertDelay:   RegisterRevertDelay,
	}
}

// State returns a snapshot of the current screen state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Mode:            f.mode,
		Submitting:      f.submitting,
		Email:           f.email,
		Password:        f.password,
		ConfirmPassword: f.confirmPassword,
		Username:        f.username,
		Country:         f.country,
		ErrorText:       f.errorText,
		SuccessText:     f.successText,
	}
}

// SwitchMode flips between the login and register forms. Feedback texts are
// cleared; field values survive the switch so a typo in the wrong form does
// not cost the user their input.
func (f *Flow) SwitchMode(mode Mode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == mode {
		return
	}
	f.mode = mode
	f.errorText = ""
	f.successText = ""
}

func (f *Flow) SetEmail(v string)           { f.setField(&f.email, v) }
func (f *Flow) SetPassword(v string)        { f.setField(&f.password, v) }
func (f *Flow) SetConfirmPassword(v string) { f.setField(&f.confirmPassword, v) }
func (f *Flow) SetUsername(v string)        { f.setField(&f.username, v) }
func (f *Flow) SetCountry(v string)         { f.setField(&f.country, v) }

func (f *Flow) setField(dst *string, v string) {
	f.mu.Lock()
	*dst = v
	f.mu.Unlock()
}

// Submit validates the active form and performs the network call. A submit
// while one is already in flight is ignored.
func (f *Flow) Submit(ctx context.Context) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return
	}

	if msg := f.validateLocked(); msg != "" {
		f.errorText = errorPrefix + msg
		f.successText = ""
		f.mu.Unlock()
		return
	}

	f.submitting = true
	f.errorText = ""
	f.successText = ""
	mode := f.mode
	email := strings.TrimSpace(f.email)
	password := f.password
	username := strings.TrimSpace(f.username)
	country := strings.TrimSpace(f.country)
	f.mu.Unlock()

	switch mode {
	case ModeLogin:
		f.submitLogin(ctx, email, password)
	case ModeRegister:
		f.submitRegister(ctx, email, password, username, country)
	}
}

// validateLocked runs the form checks in their fixed order and returns the
// first failure's message, or "". Login only requires both fields to be
// present; a wrong-length password still goes to the backend so the user
// sees the credentials error, not a format complaint.
func (f *Flow) validateLocked() string {
	email := strings.TrimSpace(f.email)
	username := strings.TrimSpace(f.username)

	if f.mode == ModeLogin {
		if email == "" || f.password == "" {
			return msgFillAllFields
		}
		return ""
	}

	if email == "" || f.password == "" || f.confirmPassword == "" || username == "" {
		return msgFillRequiredFields
	}
	if utf8.RuneCountInString(username) < minUsernameRunes {
		return msgUsernameTooShort
	}
	if !strings.Contains(email, "@") {
		return msgInvalidEmail
	}
	if utf8.RuneCountInString(f.password) < minPasswordRunes {
		return msgPasswordTooShort
	}
	if f.password != f.confirmPassword {
		return msgPasswordsDiffer
	}

	return ""
}

func (f *Flow) submitLogin(ctx context.Context, email, password string) {
	_, customErr := f.auth.SignIn(ctx, email, password)

	f.mu.Lock()
	f.submitting = false
	if customErr != nil {
		f.errorText = errorPrefix + friendlyMessage(customErr)
		f.mu.Unlock()
		return
	}
	f.successText = msgLoginSucceeded
	delay := f.redirectDelay
	f.mu.Unlock()

	time.AfterFunc(delay, func() {
		if f.navigate != nil {
			f.navigate(HomePath)
		}
	})
}

func (f *Flow) submitRegister(ctx context.Context, email, password, username, country string) {
	_, customErr := f.auth.SignUp(ctx, email, password, username, country)

	f.mu.Lock()
	f.submitting = false
	if customErr != nil {
		f.errorText = errorPrefix + friendlyMessage(customErr)
		f.mu.Unlock()
		return
	}

	// the form is cleared right away; the success text lingers until the
	// flow flips back to the login form
	f.successText = msgRegistrationSucceeded
	f.email = ""
	f.password = ""
	f.confirmPassword = ""
	f.username = ""
	f.country = ""
	delay := f.revertDelay
	f.mu.Unlock()

	time.AfterFunc(delay, func() {
		f.mu.Lock()
		f.mode = ModeLogin
		f.successText = ""
		f.mu.Unlock()
	})
}

// friendlyMessage maps the well-known auth error codes to their Russian
// wording; everything else shows the error's own message.
func friendlyMessage(customErr *errs.CustomError) string {
	switch customErr.Code {
	case errs.ErrInvalidCredentials:
		return msgInvalidCredentials
	case errs.ErrEmailAlreadyRegistered:
		return msgEmailTaken
	default:
		return customErr.Message
	}
}

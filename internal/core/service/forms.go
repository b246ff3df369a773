package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
	"github.com/rashad-agri/marketplace/internal/core/view"
)

const minPasswordLength = 6

// Alert texts shown by the form controllers.
const (
	MsgRequiredFields   = "يرجى ملء جميع الحقول المطلوبة"
	MsgTermsRequired    = "يجب الموافقة على شروط الخدمة وسياسة الخصوصية"
	MsgPasswordMismatch = "كلمات المرور غير متطابقة"
	MsgPasswordTooShort = "كلمة المرور يجب أن تكون 6 أحرف على الأقل"
	MsgLoginSuccess     = "تم تسجيل الدخول بنجاح"
	MsgLoginFailed      = "خطأ في تسجيل الدخول. يرجى التحقق من البيانات والمحاولة مرة أخرى"
	MsgRegisterSuccess  = "تم إنشاء الحساب بنجاح"
	MsgRegisterFailed   = "حدث خطأ أثناء إنشاء الحساب. يرجى المحاولة مرة أخرى"
	MsgBookingFailed    = "حدث خطأ أثناء تأكيد الحجز. يرجى المحاولة مرة أخرى"
	MsgInvalidSchedule  = "تاريخ أو وقت الاستشارة غير صالح"
	MsgLoginRequired    = "يرجى تسجيل الدخول أولاً"
	MsgOrderSuccess     = "تم إرسال الطلب بنجاح"
	MsgOrderFailed      = "حدث خطأ أثناء إرسال الطلب. يرجى المحاولة مرة أخرى"
	MsgMessageSent      = "تم إرسال الرسالة"
	MsgMessageFailed    = "تعذر إرسال الرسالة. يرجى المحاولة مرة أخرى"
	MsgLogoutSuccess    = "تم تسجيل الخروج بنجاح"
)

// LoginForm is the login page form.
type LoginForm struct {
	Email    string `json:"email"     form:"email"     validate:"required"`
	Password string `json:"password"  form:"password"  validate:"required"`
	UserType string `json:"user_type" form:"user_type" validate:"required"`
}

// RegisterForm is the registration page form.
type RegisterForm struct {
	FirstName       string `json:"first_name"       form:"first_name"       validate:"required"`
	LastName        string `json:"last_name"        form:"last_name"        validate:"required"`
	Email           string `json:"email"            form:"email"            validate:"required"`
	Phone           string `json:"phone"            form:"phone"            validate:"required"`
	State           string `json:"state"            form:"state"            validate:"required"`
	Password        string `json:"password"         form:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
	UserType        string `json:"user_type"        form:"user_type"        validate:"required,oneof=farmer supplier trader expert"`
	Terms           bool   `json:"terms"            form:"terms"`
}

// BookingForm is the consultation booking modal.
type BookingForm struct {
	ExpertID string `json:"expert_id"         form:"expert_id"         validate:"required"`
	Type     string `json:"consultation_type" form:"consultation_type" validate:"required"`
	Date     string `json:"date"              form:"date"              validate:"required"`
	Time     string `json:"time"              form:"time"              validate:"required"`
	Duration int    `json:"duration"          form:"duration"          validate:"required,gt=0"`
	Notes    string `json:"notes"             form:"notes"`
}

// OrderForm is the product order modal.
type OrderForm struct {
	ProductID string  `json:"product_id" form:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity"   form:"quantity"   validate:"gt=0"`
	Notes     string  `json:"notes"      form:"notes"`
}

// MessageForm is the chat modal.
type MessageForm struct {
	ReceiverID string `json:"receiver_id" form:"receiver_id" validate:"required"`
	ProductID  string `json:"product_id"  form:"product_id"`
	Content    string `json:"content"     form:"content"     validate:"required"`
}

// FormResult is the outcome of a form submission.
type FormResult struct {
	OK    bool        `json:"ok"`
	Alert *view.Alert `json:"alert,omitempty"`
	Error string      `json:"error,omitempty"`
	Data  any         `json:"data,omitempty"`
}

func rejected(msg string) FormResult {
	return FormResult{Alert: view.ErrorAlert(msg)}
}

func failed(msg, cause string) FormResult {
	return FormResult{Alert: view.ErrorAlert(msg), Error: cause}
}

func succeeded(msg string, data any) FormResult {
	return FormResult{OK: true, Alert: view.SuccessAlert(msg), Data: data}
}

// FormController validates form submissions and runs them against a session.
// Invalid forms never reach the backend; valid ones keep their trigger busy
// for the whole call.
type FormController struct {
	validate *validator.Validate
	busy     ports.BusyIndicator
	nav      ports.Navigator
	log      zerolog.Logger
}

func NewFormController(validate *validator.Validate, busy ports.BusyIndicator, nav ports.Navigator, log zerolog.Logger) *FormController {
	return &FormController{
		validate: validate,
		busy:     busy,
		nav:      nav,
		log:      log.With().Str("component", "forms").Logger(),
	}
}

func (f *FormController) valid(form any) bool {
	return f.validate.Struct(form) == nil
}

// Login submits the login form.
func (f *FormController) Login(ctx context.Context, s *Session, form LoginForm) FormResult {
	form.Email = strings.TrimSpace(form.Email)
	if !f.valid(form) {
		return rejected(MsgRequiredFields)
	}

	restore := f.busy.Busy(ctx, "login")
	defer restore()

	res := s.Manager.Login(ctx, form.Email, form.Password)
	if !res.Success {
		return failed(MsgLoginFailed, res.Error)
	}
	return succeeded(MsgLoginSuccess, res.Data)
}

// ValidateRegistration checks the registration rules in display order:
// required fields, terms, matching passwords, minimum length.
func (f *FormController) ValidateRegistration(form RegisterForm) (string, bool) {
	switch {
	case !f.valid(form):
		return MsgRequiredFields, false
	case !form.Terms:
		return MsgTermsRequired, false
	case form.Password != form.ConfirmPassword:
		return MsgPasswordMismatch, false
	case len([]rune(form.Password)) < minPasswordLength:
		return MsgPasswordTooShort, false
	}
	return "", true
}

// Register submits the registration form and sends the user to the login page.
func (f *FormController) Register(ctx context.Context, s *Session, form RegisterForm) FormResult {
	form.Email = strings.TrimSpace(form.Email)
	if msg, ok := f.ValidateRegistration(form); !ok {
		return rejected(msg)
	}

	restore := f.busy.Busy(ctx, "register")
	defer restore()

	res := s.Manager.Register(ctx, RegisterInput{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     form.Email,
		Phone:     strings.TrimSpace(form.Phone),
		State:     form.State,
		Password:  form.Password,
		Role:      domain.Role(form.UserType),
	})
	if !res.Success {
		return failed(MsgRegisterFailed, res.Error)
	}
	f.nav.Navigate(ctx, domain.RouteLogin)
	return succeeded(MsgRegisterSuccess, res.Data)
}

// Logout signs the session out.
func (f *FormController) Logout(ctx context.Context, s *Session) FormResult {
	restore := f.busy.Busy(ctx, "logout")
	defer restore()

	res := s.Manager.Logout(ctx)
	if !res.Success {
		return failed(res.Error, res.Error)
	}
	return succeeded(MsgLogoutSuccess, nil)
}

// requester returns the signed-in identity id, or asks for a login.
func (f *FormController) requester(ctx context.Context, s *Session) (string, bool) {
	id := s.Manager.Identity()
	if id == nil {
		f.nav.Navigate(ctx, domain.RouteLogin)
		return "", false
	}
	return id.ID, true
}

// Book submits the consultation booking modal.
func (f *FormController) Book(ctx context.Context, s *Session, form BookingForm) FormResult {
	if !f.valid(form) {
		return rejected(MsgRequiredFields)
	}
	at, err := time.Parse("2006-01-02 15:04", form.Date+" "+form.Time)
	if err != nil {
		return rejected(MsgInvalidSchedule)
	}
	uid, ok := f.requester(ctx, s)
	if !ok {
		return rejected(MsgLoginRequired)
	}

	restore := f.busy.Busy(ctx, "booking")
	defer restore()

	res := s.Client.BookConsultation(ctx, domain.NewConsultation{
		ExpertID:        form.ExpertID,
		RequesterID:     uid,
		Type:            form.Type,
		ScheduledAt:     at,
		DurationMinutes: form.Duration,
		Notes:           form.Notes,
	})
	if !res.Success {
		return failed(MsgBookingFailed, res.Error)
	}
	return succeeded(bookingConfirmation(form), res.Data)
}

func bookingConfirmation(form BookingForm) string {
	return fmt.Sprintf("تم حجز استشارة بنجاح!\n\nالتفاصيل:\n- النوع: %s\n- التاريخ: %s\n- الوقت: %s\n- المدة: %d دقيقة",
		form.Type, form.Date, form.Time, form.Duration)
}

// Order submits the product order modal.
func (f *FormController) Order(ctx context.Context, s *Session, form OrderForm) FormResult {
	if !f.valid(form) {
		return rejected(MsgRequiredFields)
	}
	uid, ok := f.requester(ctx, s)
	if !ok {
		return rejected(MsgLoginRequired)
	}

	restore := f.busy.Busy(ctx, "order")
	defer restore()

	res := s.Client.CreateOrder(ctx, domain.NewOrder{
		ProductID: form.ProductID,
		BuyerID:   uid,
		Quantity:  form.Quantity,
		Notes:     form.Notes,
	})
	if !res.Success {
		return failed(MsgOrderFailed, res.Error)
	}
	return succeeded(MsgOrderSuccess, res.Data)
}

// Message submits the chat modal.
func (f *FormController) Message(ctx context.Context, s *Session, form MessageForm) FormResult {
	form.Content = strings.TrimSpace(form.Content)
	if !f.valid(form) {
		return rejected(MsgRequiredFields)
	}
	uid, ok := f.requester(ctx, s)
	if !ok {
		return rejected(MsgLoginRequired)
	}

	restore := f.busy.Busy(ctx, "message")
	defer restore()

	res := s.Client.SendMessage(ctx, domain.NewMessage{
		SenderID:   uid,
		ReceiverID: form.ReceiverID,
		ProductID:  form.ProductID,
		Content:    form.Content,
	})
	if !res.Success {
		return failed(MsgMessageFailed, res.Error)
	}
	return succeeded(MsgMessageSent, res.Data)
}

package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/view"
)

func newTestForms() (*FormController, *fakeBusy) {
	busy := &fakeBusy{}
	return NewFormController(validator.New(), busy, ContextNavigator{}, zerolog.Nop()), busy
}

func validRegisterForm() RegisterForm {
	return RegisterForm{
		FirstName:       "سلمى",
		LastName:        "عثمان",
		Email:           "salma@rashad.sd",
		Phone:           "0912345678",
		State:           "الخرطوم",
		Password:        "abcdef",
		ConfirmPassword: "abcdef",
		UserType:        "trader",
		Terms:           true,
	}
}

func TestValidateRegistration_PasswordLengthBoundary(t *testing.T) {
	f, _ := newTestForms()

	five := validRegisterForm()
	five.Password, five.ConfirmPassword = "abcde", "abcde"
	msg, ok := f.ValidateRegistration(five)
	assert.False(t, ok)
	assert.Equal(t, MsgPasswordTooShort, msg)

	six := validRegisterForm()
	_, ok = f.ValidateRegistration(six)
	assert.True(t, ok)
}

func TestValidateRegistration_UnknownRoleRejected(t *testing.T) {
	f, _ := newTestForms()

	for _, role := range []string{"admin", "Farmer", "guest"} {
		form := validRegisterForm()
		form.UserType = role
		msg, ok := f.ValidateRegistration(form)
		assert.False(t, ok, role)
		assert.Equal(t, MsgRequiredFields, msg, role)
	}

	for _, role := range []string{"farmer", "supplier", "trader", "expert"} {
		form := validRegisterForm()
		form.UserType = role
		_, ok := f.ValidateRegistration(form)
		assert.True(t, ok, role)
	}
}

func TestValidateRegistration_RuleOrder(t *testing.T) {
	f, _ := newTestForms()

	missing := validRegisterForm()
	missing.Phone = ""
	missing.Terms = false
	msg, _ := f.ValidateRegistration(missing)
	assert.Equal(t, MsgRequiredFields, msg)

	noTerms := validRegisterForm()
	noTerms.Terms = false
	noTerms.ConfirmPassword = "other1"
	msg, _ = f.ValidateRegistration(noTerms)
	assert.Equal(t, MsgTermsRequired, msg)

	mismatch := validRegisterForm()
	mismatch.Password, mismatch.ConfirmPassword = "abc", "abd"
	msg, _ = f.ValidateRegistration(mismatch)
	assert.Equal(t, MsgPasswordMismatch, msg)
}

func TestRegister_InvalidFormNeverReachesBackend(t *testing.T) {
	env := newTestEnv()
	s := env.session("s1")
	f, busy := newTestForms()

	form := validRegisterForm()
	form.Password, form.ConfirmPassword = "abcde", "abcde"
	res := f.Register(context.Background(), s, form)

	assert.False(t, res.OK)
	assert.Equal(t, view.AlertError, res.Alert.Kind)
	assert.Zero(t, env.auth.signUps)
	assert.Empty(t, busy.triggers)
}

func TestRegister_SuccessGoesToLogin(t *testing.T) {
	env := newTestEnv()
	s := env.session("s1")
	f, busy := newTestForms()

	ctx, nav := WithNavigation(context.Background(), domain.RouteRegister)
	res := f.Register(ctx, s, validRegisterForm())

	require.True(t, res.OK)
	assert.Equal(t, MsgRegisterSuccess, res.Alert.Message)
	to, ok := nav.Redirect()
	require.True(t, ok)
	assert.Equal(t, domain.RouteLogin, to)
	assert.Equal(t, []string{"register"}, busy.triggers)
	assert.Zero(t, busy.active)
}

func TestRegister_BackendFailureRestoresBusy(t *testing.T) {
	env := newTestEnv()
	env.auth.addAccount("x", "salma@rashad.sd", "abcdef", domain.IdentityMetadata{})
	s := env.session("s1")
	f, busy := newTestForms()

	res := f.Register(context.Background(), s, validRegisterForm())

	assert.False(t, res.OK)
	assert.Equal(t, MsgRegisterFailed, res.Alert.Message)
	assert.Equal(t, domain.ErrUserExists.Error(), res.Error)
	assert.Zero(t, busy.active)
}

func TestLoginForm_RequiresUserType(t *testing.T) {
	env := newTestEnv()
	s := env.session("s1")
	f, busy := newTestForms()

	res := f.Login(context.Background(), s, LoginForm{Email: "a@b.sd", Password: "secret1"})

	assert.False(t, res.OK)
	assert.Equal(t, MsgRequiredFields, res.Alert.Message)
	assert.Empty(t, busy.triggers)
}

func TestLoginForm_Success(t *testing.T) {
	env := newTestEnv()
	env.auth.addAccount("s9", "sup@rashad.sd", "secret1", domain.IdentityMetadata{UserType: "supplier"})
	s := env.session("s1")
	defer s.Manager.Close()
	f, busy := newTestForms()

	ctx, nav := WithNavigation(context.Background(), domain.RouteLogin)
	res := f.Login(ctx, s, LoginForm{Email: " sup@rashad.sd ", Password: "secret1", UserType: "supplier"})

	require.True(t, res.OK)
	to, _ := nav.Redirect()
	assert.Equal(t, domain.RouteSupplierDashboard, to)
	assert.Zero(t, busy.active)
}

func TestBook_Validation(t *testing.T) {
	env := newTestEnv()
	s := env.session("s1")
	f, _ := newTestForms()

	res := f.Book(context.Background(), s, BookingForm{ExpertID: "e1", Type: "video", Date: "2024-06-01", Time: "10:00"})
	assert.Equal(t, MsgRequiredFields, res.Alert.Message)

	res = f.Book(context.Background(), s, BookingForm{ExpertID: "e1", Type: "video", Date: "01/06/2024", Time: "10:00", Duration: 30})
	assert.Equal(t, MsgInvalidSchedule, res.Alert.Message)

	res = f.Book(context.Background(), s, BookingForm{ExpertID: "e1", Type: "video", Date: "2024-06-01", Time: "10:00", Duration: 30})
	assert.Equal(t, MsgLoginRequired, res.Alert.Message)
	assert.Zero(t, env.data.callCount())
}

func TestBook_Success(t *testing.T) {
	env := newTestEnv()
	env.signedIn("f1", domain.RoleFarmer)
	s := initialised(t, env)
	f, busy := newTestForms()

	res := f.Book(context.Background(), s, BookingForm{ExpertID: "e1", Type: "video", Date: "2024-06-01", Time: "10:30", Duration: 45})

	require.True(t, res.OK)
	cons, ok := res.Data.(*domain.Consultation)
	require.True(t, ok)
	assert.Equal(t, "f1", cons.RequesterID)
	assert.Equal(t, 10, cons.ScheduledAt.Hour())
	assert.Contains(t, res.Alert.Message, "45 دقيقة")
	assert.Equal(t, []string{"booking"}, busy.triggers)
	assert.Zero(t, busy.active)
}

func TestOrderAndMessage_Validation(t *testing.T) {
	env := newTestEnv()
	env.signedIn("t1", domain.RoleTrader)
	s := initialised(t, env)
	f, _ := newTestForms()

	assert.Equal(t, MsgRequiredFields, f.Order(context.Background(), s, OrderForm{ProductID: "p1"}).Alert.Message)
	assert.Equal(t, MsgRequiredFields, f.Message(context.Background(), s, MessageForm{ReceiverID: "x", Content: "   "}).Alert.Message)

	res := f.Message(context.Background(), s, MessageForm{ReceiverID: "x", Content: " مرحبا "})
	require.True(t, res.OK)
	assert.Equal(t, "مرحبا", res.Data.(*domain.Message).Content)
}

func TestLogoutForm(t *testing.T) {
	env := newTestEnv()
	env.signedIn("t1", domain.RoleTrader)
	s := initialised(t, env)
	f, _ := newTestForms()

	res := f.Logout(context.Background(), s)

	assert.True(t, res.OK)
	assert.False(t, s.Manager.IsAuthenticated())
}

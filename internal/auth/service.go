package auth

import (
	"context"

	"github.com/freightdesk/freightdesk/internal/shared"
)

// Port is the API surface the service needs.
type Port interface {
	Login(ctx context.Context, creds Credentials) (TokenResponse, error)
	Register(ctx context.Context, reg Registration) (TokenResponse, error)
	Profile(ctx context.Context) (User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, reset PasswordReset) error
}

// Service proxies authentication to the remote API and binds the returned
// bearer token to the web session. There is no local credential store.
type Service struct {
	port Port
}

// NewService constructs a Service.
func NewService(port Port) *Service {
	return &Service{port: port}
}

// Authenticate logs in against the remote API and stores the token and user
// identity on the session.
func (s *Service) Authenticate(ctx context.Context, sess *shared.Session, creds Credentials) (User, error) {
	resp, err := s.port.Login(ctx, creds)
	if err != nil {
		return User{}, err
	}
	bind(sess, resp)
	return resp.User, nil
}

// SignUp registers a new account and signs the session in.
func (s *Service) SignUp(ctx context.Context, sess *shared.Session, reg Registration) (User, error) {
	resp, err := s.port.Register(ctx, reg)
	if err != nil {
		return User{}, err
	}
	bind(sess, resp)
	return resp.User, nil
}

// Profile fetches the signed-in user's details.
func (s *Service) Profile(ctx context.Context) (User, error) {
	return s.port.Profile(ctx)
}

// UpdateProfile edits the signed-in user's details.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error) {
	return s.port.UpdateProfile(ctx, update)
}

// RequestPasswordReset asks the API to mail a reset token.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	return s.port.RequestPasswordReset(ctx, email)
}

// ConfirmPasswordReset completes a password reset.
func (s *Service) ConfirmPasswordReset(ctx context.Context, reset PasswordReset) error {
	return s.port.ConfirmPasswordReset(ctx, reset)
}

func bind(sess *shared.Session, resp TokenResponse) {
	if sess == nil {
		return
	}
	sess.SetBearerToken(resp.Token)
	sess.SetUser(resp.User.Email)
	sess.Set("user_name", resp.User.Name)
	sess.Set("user_role", resp.User.Role)
}

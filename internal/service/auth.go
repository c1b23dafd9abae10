package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"
)

var authTracer = otel.Tracer("service/auth")

// AuthService implements registration, the two login flows and session
// management. Credentials are compared in plain text: the store is
// local to the user's machine and there is no remote authority (the
// JWT only protects the local HTTP surface).
type AuthService struct {
	users     *repository.UserRepo
	customers *repository.CustomerRepo
	session   *repository.SessionRepo
	jwtSecret []byte
	accessTTL time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService wires the auth flows over the repositories.
func NewAuthService(
	users *repository.UserRepo,
	customers *repository.CustomerRepo,
	session *repository.SessionRepo,
	jwtSecret string,
	accessTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		customers: customers,
		session:   session,
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// LoginResult is what both login flows hand to the presentation layer.
type LoginResult struct {
	User        domain.User    `json:"user"`
	Session     domain.Session `json:"session"`
	AccessToken string         `json:"accessToken"`
}

// RegisterVendor creates a vendor account. Phone uniqueness is enforced
// by the user repository.
func (s *AuthService) RegisterVendor(ctx context.Context, name, phone, address, password string) (domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.RegisterVendor")
	defer span.End()

	if name == "" {
		return domain.User{}, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if len(phone) < 10 {
		return domain.User{}, &domain.ErrValidation{Field: "phone", Message: "must be at least 10 digits"}
	}
	if password == "" {
		return domain.User{}, &domain.ErrValidation{Field: "password", Message: "required"}
	}

	user, err := s.users.Create(domain.NewUser{
		Type:     domain.UserTypeVendor,
		Name:     name,
		Phone:    phone,
		Address:  address,
		Password: password,
	})
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("vendor registered", zap.String("user_id", user.ID))
	return user, nil
}

// VendorLogin validates vendor credentials and opens a session.
func (s *AuthService) VendorLogin(ctx context.Context, phone, password string) (*LoginResult, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.VendorLogin")
	defer span.End()

	user, ok := s.users.ValidateLogin(phone, password, domain.UserTypeVendor)
	if !ok {
		s.logger.Warn("vendor login rejected", zap.String("phone", phone))
		return nil, &domain.ErrUnauthorized{Message: "invalid phone or password"}
	}
	return s.openSession(ctx, user)
}

// CustomerLogin signs a customer in by application code. Unknown codes
// enroll a new customer under the first registered vendor, and a login
// account is created on first use: customers exist before their user
// records do.
func (s *AuthService) CustomerLogin(ctx context.Context, code, phone, address string) (*LoginResult, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.CustomerLogin")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, &domain.ErrValidation{Field: "code", Message: "required"}
	}
	if len(phone) < 10 {
		return nil, &domain.ErrValidation{Field: "phone", Message: "must be at least 10 digits"}
	}

	customer, ok := s.customers.GetByAppCode(code)
	if !ok {
		vendors := s.users.GetByType(domain.UserTypeVendor)
		if len(vendors) == 0 {
			return nil, &domain.ErrValidation{Field: "code", Message: "no vendors registered yet"}
		}
		if address == "" {
			address = "Not provided"
		}
		var err error
		customer, err = s.customers.Create(ctx, domain.NewCustomer{
			VendorID: vendors[0].ID,
			Name:     "Customer " + lastN(code, 4),
			Phone:    phone,
			Address:  address,
		})
		if err != nil {
			return nil, fmt.Errorf("enroll customer: %w", err)
		}
		s.logger.Info("customer enrolled at login",
			zap.String("customer_id", customer.ID),
			zap.String("app_code", customer.AppCode),
		)
	}

	user, ok := s.users.GetByPhone(phone)
	if !ok {
		userAddress := address
		if userAddress == "" {
			userAddress = customer.Address
		}
		var err error
		user, err = s.users.Create(domain.NewUser{
			Type:       domain.UserTypeCustomer,
			Name:       customer.Name,
			Phone:      phone,
			Address:    userAddress,
			Password:   "customer",
			CustomerID: customer.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("create customer account: %w", err)
		}
	}

	return s.openSession(ctx, user)
}

// Logout destroys the active session.
func (s *AuthService) Logout(ctx context.Context) {
	s.session.Logout(ctx)
}

// CurrentSession returns the active session if its user still exists;
// a session pointing at a deleted user is cleared.
func (s *AuthService) CurrentSession(ctx context.Context) (domain.Session, bool) {
	session, ok := s.session.Get()
	if !ok {
		return domain.Session{}, false
	}
	if _, exists := s.users.GetByID(session.UserID); !exists {
		s.logger.Warn("session user missing, clearing session",
			zap.String("user_id", session.UserID))
		s.session.Logout(ctx)
		return domain.Session{}, false
	}
	return session, true
}

func (s *AuthService) openSession(ctx context.Context, user domain.User) (*LoginResult, error) {
	session := s.session.Login(ctx, user)
	token, err := s.signAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	s.logger.Info("login",
		zap.String("user_id", user.ID),
		zap.String("type", string(user.Type)),
	)
	return &LoginResult{User: user, Session: session, AccessToken: token}, nil
}

// signAccessToken mints an HS256 token for the local HTTP surface.
func (s *AuthService) signAccessToken(user domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"typ":  string(user.Type),
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseAccessToken validates a token and returns the user id and type.
func (s *AuthService) ParseAccessToken(tokenString string) (string, domain.UserType, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", &domain.ErrUnauthorized{Message: "invalid token claims"}
	}
	sub, _ := claims["sub"].(string)
	typ, _ := claims["typ"].(string)
	if sub == "" {
		return "", "", &domain.ErrUnauthorized{Message: "invalid token subject"}
	}
	return sub, domain.UserType(typ), nil
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

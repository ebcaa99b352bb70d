package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/quotedesk/quotation-api/internal/config"
	"github.com/quotedesk/quotation-api/internal/domain"
	"github.com/quotedesk/quotation-api/internal/identity"
	"github.com/quotedesk/quotation-api/internal/repository"
	"go.uber.org/zap"
)

// IdentityProvider registers accounts with the external identity service
type IdentityProvider interface {
	CreateUser(ctx context.Context, params identity.CreateUserParams) (string, error)
}

// CredentialMailer delivers generated passwords to new accounts
type CredentialMailer interface {
	SendCredentials(ctx context.Context, name, toEmail, password string) error
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// Optional leading +, then at least 8 digits with spaces or hyphens between
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,}[0-9]$`)
)

type DriverService struct {
	driverRepo *repository.DriverRepository
	provider   IdentityProvider
	mailer     CredentialMailer
	emailCfg   *config.EmailConfig
	logger     *zap.Logger
}

func NewDriverService(
	driverRepo *repository.DriverRepository,
	provider IdentityProvider,
	mailer CredentialMailer,
	emailCfg *config.EmailConfig,
	logger *zap.Logger,
) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		provider:   provider,
		mailer:     mailer,
		emailCfg:   emailCfg,
		logger:     logger,
	}
}

// Create provisions a driver account: validates the request, rejects
// duplicate emails, generates a password, registers the account with the
// identity provider and persists the local record. A request carrying an
// existing identity reference skips the password and provider steps and
// persists that reference directly. Invalid input fails before any side
// effect. The credentials email only goes out when explicitly enabled in
// configuration.
func (s *DriverService) Create(ctx context.Context, req *domain.CreateDriverRequest) (*domain.DriverDTO, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	phone := strings.TrimSpace(req.Phone)
	role := domain.DriverRole(req.Role)

	if len(name) < 2 {
		return nil, ErrInvalidName
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if !validPhone(phone) {
		return nil, ErrInvalidPhone
	}
	if !domain.ValidDriverRole(role) {
		return nil, ErrInvalidDriverRole
	}

	exists, err := s.driverRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check driver email: %w", err)
	}
	if exists {
		return nil, ErrDriverEmailTaken
	}

	// A supplied identity reference is stored as-is; the provider is only
	// contacted when the account does not exist there yet
	clerkID := strings.TrimSpace(req.ClerkID)
	var password string
	if clerkID == "" {
		password, err = identity.GeneratePassword()
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}

		clerkID, err = s.provider.CreateUser(ctx, identity.CreateUserParams{
			Name:     name,
			Email:    email,
			Password: password,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to provision identity: %w", err)
		}
	}

	driver := &domain.Driver{
		Name:    name,
		Email:   email,
		Phone:   phone,
		ClerkID: clerkID,
		Role:    role,
	}
	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, fmt.Errorf("failed to save driver: %w", err)
	}

	if s.emailCfg.SendCredentials && password != "" {
		if err := s.mailer.SendCredentials(ctx, name, email, password); err != nil {
			// Account exists either way; mail failure must not roll it back
			s.logger.Error("failed to send credentials email",
				zap.String("driver_id", driver.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("driver provisioned",
		zap.String("driver_id", driver.ID.String()),
		zap.String("role", string(role)),
	)

	dto := domain.NewDriverDTO(driver)
	return &dto, nil
}

// List returns a page of drivers, optionally filtered on name or email
func (s *DriverService) List(ctx context.Context, page, pageSize int, search string) ([]domain.DriverDTO, int64, error) {
	drivers, total, err := s.driverRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drivers: %w", err)
	}

	dtos := make([]domain.DriverDTO, len(drivers))
	for i := range drivers {
		dtos[i] = domain.NewDriverDTO(&drivers[i])
	}
	return dtos, total, nil
}

// validPhone accepts an optional leading + and at least 8 digits, allowing
// spaces and hyphens as separators
func validPhone(phone string) bool {
	if !phonePattern.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 8
}

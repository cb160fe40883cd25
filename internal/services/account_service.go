package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminCredentials is the single marketplace administrator, configured rather than stored.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

type AccountService struct {
	store    repository.Store
	tokens   *auth.TokenManager
	revoker  auth.Revoker
	cache    cache.ProductCache
	admin    AdminCredentials
	log      *zap.Logger
	hashCost int
}

func NewAccountService(store repository.Store, tokens *auth.TokenManager, revoker auth.Revoker, pc cache.ProductCache, admin AdminCredentials, log *zap.Logger) *AccountService {
	return &AccountService{
		store:    store,
		tokens:   tokens,
		revoker:  revoker,
		cache:    pc,
		admin:    admin,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

type CustomerRegistration struct {
	Name     string
	Username string
	Password string
	Email    string
	Address  string
	Phone    string
	Age      int
	PhotoRef string
}

type SellerRegistration struct {
	Name              string
	Username          string
	Password          string
	Email             string
	Address           string
	Phone             string
	CollectiveDetails string
	PassbookRef       string
}

func (s *AccountService) checkIdentity(ctx context.Context, name, username, password, email string) (string, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(username) == "" || password == "" {
		return "", fmt.Errorf("name, username and password are required: %w", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("email %q: %w", email, domain.ErrInvalidInput)
	}

	accounts := s.store.Accounts()
	taken, err := accounts.UsernameTaken(ctx, username)
	if err != nil {
		return "", fmt.Errorf("check username: %w", err)
	}
	if taken {
		return "", fmt.Errorf("username %q: %w", username, domain.ErrConflict)
	}
	taken, err = accounts.EmailTaken(ctx, email)
	if err != nil {
		return "", fmt.Errorf("check email: %w", err)
	}
	if taken {
		return "", fmt.Errorf("email %q: %w", email, domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AccountService) RegisterCustomer(ctx context.Context, p auth.Principal, in CustomerRegistration) (*domain.Customer, error) {
	if p.Role != auth.RoleGuest {
		return nil, domain.ErrUnauthorized
	}
	if in.Age < 0 {
		return nil, fmt.Errorf("age: %w", domain.ErrInvalidInput)
	}
	hash, err := s.checkIdentity(ctx, in.Name, in.Username, in.Password, in.Email)
	if err != nil {
		return nil, err
	}

	c := &domain.Customer{
		Name:         strings.TrimSpace(in.Name),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		Address:      in.Address,
		Email:        in.Email,
		Phone:        in.Phone,
		Age:          in.Age,
		PhotoRef:     in.PhotoRef,
	}
	if err := s.store.Accounts().CreateCustomer(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	s.log.Info("customer registered", zap.Uint64("customer_id", c.ID))
	return c, nil
}

// RegisterSeller creates an account that cannot log in until an admin approves it.
func (s *AccountService) RegisterSeller(ctx context.Context, p auth.Principal, in SellerRegistration) (*domain.Seller, error) {
	if p.Role != auth.RoleGuest {
		return nil, domain.ErrUnauthorized
	}
	hash, err := s.checkIdentity(ctx, in.Name, in.Username, in.Password, in.Email)
	if err != nil {
		return nil, err
	}

	seller := &domain.Seller{
		Name:              strings.TrimSpace(in.Name),
		Username:          strings.TrimSpace(in.Username),
		PasswordHash:      hash,
		Address:           in.Address,
		Email:             in.Email,
		Phone:             in.Phone,
		CollectiveDetails: in.CollectiveDetails,
		PassbookRef:       in.PassbookRef,
	}
	if err := s.store.Accounts().CreateSeller(ctx, seller); err != nil {
		return nil, fmt.Errorf("create seller: %w", err)
	}
	s.log.Info("seller registered", zap.Uint64("seller_id", seller.ID))
	return seller, nil
}

func passwordMatches(hash, password string) bool {
	return hash != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Login checks the admin, then customers, then sellers. A seller with the right
// password who is still pending gets ErrUnauthorized rather than a session.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, auth.Session, error) {
	var principal auth.Principal
	switch {
	case s.admin.Username != "" && username == s.admin.Username:
		if !passwordMatches(s.admin.PasswordHash, password) {
			return "", auth.Session{}, domain.ErrInvalidCredentials
		}
		principal = auth.AdminPrincipal()
	default:
		p, err := s.findAccount(ctx, username, password)
		if err != nil {
			return "", auth.Session{}, err
		}
		principal = p
	}

	token, sess, err := s.tokens.Issue(principal)
	if err != nil {
		return "", auth.Session{}, err
	}
	s.log.Info("login", zap.String("role", principal.Role.String()), zap.Uint64("account_id", principal.ID))
	return token, sess, nil
}

func (s *AccountService) findAccount(ctx context.Context, username, password string) (auth.Principal, error) {
	accounts := s.store.Accounts()

	c, err := accounts.FindCustomerByUsername(ctx, username)
	if err != nil {
		return auth.Guest, fmt.Errorf("find customer: %w", err)
	}
	if c != nil {
		if !passwordMatches(c.PasswordHash, password) {
			return auth.Guest, domain.ErrInvalidCredentials
		}
		return auth.CustomerPrincipal(c.ID), nil
	}

	seller, err := accounts.FindSellerByUsername(ctx, username)
	if err != nil {
		return auth.Guest, fmt.Errorf("find seller: %w", err)
	}
	if seller == nil || !passwordMatches(seller.PasswordHash, password) {
		return auth.Guest, domain.ErrInvalidCredentials
	}
	if !seller.IsApproved {
		return auth.Guest, fmt.Errorf("seller account pending approval: %w", domain.ErrUnauthorized)
	}
	return auth.SellerPrincipal(seller.ID), nil
}

// Logout revokes the session until its own expiry.
func (s *AccountService) Logout(ctx context.Context, sess auth.Session) error {
	if sess.TokenID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.revoker.Revoke(ctx, sess.TokenID, time.Until(sess.ExpiresAt)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Authenticate verifies a raw token. Invalid or revoked tokens, and tokens of
// accounts that were deleted or are no longer approved, yield a guest session and
// ErrUnauthenticated.
func (s *AccountService) Authenticate(ctx context.Context, raw string) (auth.Session, error) {
	sess, err := s.tokens.Parse(raw)
	if err != nil {
		return auth.Session{Principal: auth.Guest}, errors.Join(domain.ErrUnauthenticated, err)
	}
	revoked, err := s.revoker.IsRevoked(ctx, sess.TokenID)
	if err != nil {
		return auth.Session{Principal: auth.Guest}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return auth.Session{Principal: auth.Guest}, domain.ErrUnauthenticated
	}

	active, err := s.accountActive(ctx, sess.Principal)
	if err != nil {
		return auth.Session{Principal: auth.Guest}, fmt.Errorf("check account: %w", err)
	}
	if !active {
		return auth.Session{Principal: auth.Guest}, fmt.Errorf("account %d is gone: %w", sess.Principal.ID, domain.ErrUnauthenticated)
	}
	return sess, nil
}

func (s *AccountService) accountActive(ctx context.Context, p auth.Principal) (bool, error) {
	accounts := s.store.Accounts()
	switch p.Role {
	case auth.RoleCustomer:
		c, err := accounts.FindCustomerByID(ctx, p.ID)
		return c != nil, err
	case auth.RoleSeller:
		seller, err := accounts.FindSellerByID(ctx, p.ID)
		return seller != nil && seller.IsApproved, err
	case auth.RoleAdmin:
		return true, nil
	}
	return false, nil
}

type ProfileUpdate struct {
	Name     string
	Address  string
	Phone    string
	PhotoRef string
}

func (s *AccountService) Profile(ctx context.Context, p auth.Principal) (*domain.Customer, error) {
	customerID, err := p.Customer()
	if err != nil {
		return nil, err
	}
	c, err := s.store.Accounts().FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// UpdateProfile replaces the customer's editable fields. Username, email and
// password stay as registered.
func (s *AccountService) UpdateProfile(ctx context.Context, p auth.Principal, in ProfileUpdate) (*domain.Customer, error) {
	customerID, err := p.Customer()
	if err != nil {
		return nil, err
	}
	profile := domain.CustomerProfile{
		Name:     strings.TrimSpace(in.Name),
		Address:  strings.TrimSpace(in.Address),
		Phone:    strings.TrimSpace(in.Phone),
		PhotoRef: strings.TrimSpace(in.PhotoRef),
	}
	switch {
	case profile.Name == "":
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	case utf8.RuneCountInString(profile.Name) > 30:
		return nil, fmt.Errorf("name longer than 30 characters: %w", domain.ErrInvalidInput)
	case utf8.RuneCountInString(profile.Address) > 60:
		return nil, fmt.Errorf("address longer than 60 characters: %w", domain.ErrInvalidInput)
	case utf8.RuneCountInString(profile.Phone) > 20:
		return nil, fmt.Errorf("phone longer than 20 characters: %w", domain.ErrInvalidInput)
	}

	ok, err := s.store.Accounts().UpdateCustomerProfile(ctx, customerID, profile)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.log.Info("profile updated", zap.Uint64("customer_id", customerID))
	return s.Profile(ctx, p)
}

func (s *AccountService) ListCustomers(ctx context.Context, p auth.Principal) ([]domain.Customer, error) {
	if err := p.Admin(); err != nil {
		return nil, err
	}
	out, err := s.store.Accounts().ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if out == nil {
		out = []domain.Customer{}
	}
	return out, nil
}

// ListSellers returns approved sellers when approved is true, pending ones otherwise.
func (s *AccountService) ListSellers(ctx context.Context, p auth.Principal, approved bool) ([]domain.Seller, error) {
	if err := p.Admin(); err != nil {
		return nil, err
	}
	out, err := s.store.Accounts().ListSellers(ctx, approved)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	if out == nil {
		out = []domain.Seller{}
	}
	return out, nil
}

func (s *AccountService) ApproveSeller(ctx context.Context, p auth.Principal, sellerID uint64) error {
	if err := p.Admin(); err != nil {
		return err
	}
	ok, err := s.store.Accounts().ApproveSeller(ctx, sellerID)
	if err != nil {
		return fmt.Errorf("approve seller: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.log.Info("seller approved", zap.Uint64("seller_id", sellerID))
	return nil
}

// RejectSeller discards a pending registration. Approved sellers go through DeleteSeller.
func (s *AccountService) RejectSeller(ctx context.Context, p auth.Principal, sellerID uint64) error {
	if err := p.Admin(); err != nil {
		return err
	}
	seller, err := s.store.Accounts().FindSellerByID(ctx, sellerID)
	if err != nil {
		return fmt.Errorf("find seller: %w", err)
	}
	if seller == nil {
		return domain.ErrNotFound
	}
	if seller.IsApproved {
		return fmt.Errorf("seller %d already approved: %w", sellerID, domain.ErrInvalidTransition)
	}
	return s.deleteSeller(ctx, sellerID)
}

// DeleteSeller removes the seller and their products. Sales history keeps the
// order item snapshots.
func (s *AccountService) DeleteSeller(ctx context.Context, p auth.Principal, sellerID uint64) error {
	if err := p.Admin(); err != nil {
		return err
	}
	return s.deleteSeller(ctx, sellerID)
}

func (s *AccountService) deleteSeller(ctx context.Context, sellerID uint64) error {
	var productIDs []uint64
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		products, err := tx.Products().ListBySeller(ctx, sellerID)
		if err != nil {
			return err
		}
		for _, pr := range products {
			productIDs = append(productIDs, pr.ID)
		}
		ok, err := tx.Accounts().DeleteSeller(ctx, sellerID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete seller: %w", err)
	}

	if err := s.cache.Invalidate(ctx, productIDs...); err != nil {
		s.log.Warn("failed to invalidate product cache", zap.Error(err))
	}
	s.log.Info("seller deleted", zap.Uint64("seller_id", sellerID), zap.Int("products", len(productIDs)))
	return nil
}

func (s *AccountService) DeleteCustomer(ctx context.Context, p auth.Principal, customerID uint64) error {
	if err := p.Admin(); err != nil {
		return err
	}
	ok, err := s.store.Accounts().DeleteCustomer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.log.Info("customer deleted", zap.Uint64("customer_id", customerID))
	return nil
}

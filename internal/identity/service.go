package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"jujujam/backend/internal/models"
	"jujujam/backend/internal/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateIdentity means the email or username is already taken.
	ErrDuplicateIdentity = errors.New("email or username already exists")

	// ErrInvalidCredentials covers every way a login can fail without
	// leaking which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// createAttempts bounds the synthesized-username retry loop.
const createAttempts = 5

// Service reconciles verified claims onto canonical accounts. Concurrent
// first-logins for the same identity are resolved by the store's unique
// indexes: the loser of an insert race retries as a lookup.
type Service struct {
	accounts store.Accounts
	verifier *Verifier

	// allowUnverified accepts claims produced by the signature-less
	// fallback decode. Off by default; the original system's always-trust
	// behavior is deliberately opt-in here.
	allowUnverified bool
}

func NewService(accounts store.Accounts, verifier *Verifier, allowUnverified bool) *Service {
	return &Service{accounts: accounts, verifier: verifier, allowUnverified: allowUnverified}
}

// RegisterInput is a local registration request. FirebaseID is optional; when
// the caller has already established a federated identity it is attached to
// the new account.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	FirebaseID  string
}

// Register creates a password-reachable account. The email is assumed to be
// verified upstream by the identity layer feeding this service.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := NormalizeEmail(in.Email)

	if _, err := s.accounts.ByEmailOrUsername(ctx, email, in.Username); err == nil {
		return nil, ErrDuplicateIdentity
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	hash := string(hashed)

	user := &models.User{
		Username:     in.Username,
		Email:        email,
		DisplayName:  in.DisplayName,
		Avatar:       models.DefaultAvatar,
		IsVerified:   true,
		LastActive:   time.Now(),
		PasswordHash: &hash,
	}
	if in.FirebaseID != "" {
		user.FirebaseID = &in.FirebaseID
	}

	if err := s.accounts.Create(ctx, user); err != nil {
		// The pre-check above is advisory; the unique index is the
		// authority under concurrency.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates by email. A supplied federated id is trusted over the
// password: it backfills a missing federated key on a known account, and for
// an unknown email it becomes an implicit registration-on-login. Without a
// federated id the password is compared against the stored hash; accounts
// created by a provider first-login have no hash and always fail here.
func (s *Service) Login(ctx context.Context, email, password, firebaseID string) (*models.User, error) {
	email = NormalizeEmail(email)

	user, err := s.accounts.ByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		if firebaseID == "" {
			return nil, ErrInvalidCredentials
		}
		claim, verr := s.verifier.Verify(ctx, FederatedProof{Email: email, ExternalID: firebaseID})
		if verr != nil {
			return nil, verr
		}
		return s.resolveOrCreate(ctx, claim)
	}
	if err != nil {
		return nil, err
	}

	if firebaseID != "" {
		// Trusted over the password; backfill the key if missing. The
		// update below (touch) persists it.
		if user.FirebaseID == nil {
			user.FirebaseID = &firebaseID
		}
	} else {
		if user.PasswordHash == nil {
			return nil, ErrInvalidCredentials
		}
		if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
	}

	return s.touch(ctx, user)
}

// OAuthLogin verifies a raw Google ID token and reconciles the resulting
// claim onto an account.
func (s *Service) OAuthLogin(ctx context.Context, rawToken string) (*models.User, error) {
	claim, err := s.verifier.Verify(ctx, OAuthProof{RawToken: rawToken})
	if err != nil {
		return nil, err
	}
	if claim.Unverified && !s.allowUnverified {
		return nil, fmt.Errorf("%w: unverified fallback claims are not accepted", ErrVerification)
	}

	user, err := s.resolveOrCreate(ctx, claim)
	if err != nil {
		return nil, err
	}
	return s.touch(ctx, user)
}

// resolveOrCreate maps a claim to exactly one account: by external id first
// (idempotent re-login), then by email (merge: attach the newly proven key),
// and only then by creating a fresh account.
func (s *Service) resolveOrCreate(ctx context.Context, claim *Claim) (*models.User, error) {
	if user, err := s.lookupByExternalID(ctx, claim); err == nil {
		return user, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user, err := s.accounts.ByEmail(ctx, claim.Email)
	if err == nil {
		return s.merge(ctx, user, claim)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return s.create(ctx, claim)
}

func (s *Service) lookupByExternalID(ctx context.Context, claim *Claim) (*models.User, error) {
	switch claim.Provider {
	case ProviderOAuth:
		return s.accounts.ByGoogleID(ctx, claim.ExternalID)
	case ProviderFederated:
		return s.accounts.ByFirebaseID(ctx, claim.ExternalID)
	default:
		return nil, store.ErrNotFound
	}
}

// merge attaches the claim's provider key to an email-matched account. The
// account's id, username, display name and email are never touched. That the
// email-matched account really belongs to the claim's subject is this
// system's trust boundary: the provider asserts the email, and we believe it.
func (s *Service) merge(ctx context.Context, user *models.User, claim *Claim) (*models.User, error) {
	changed := false

	switch claim.Provider {
	case ProviderOAuth:
		if user.GoogleID == nil {
			user.GoogleID = &claim.ExternalID
			changed = true
		}
		if claim.PictureURL != "" && user.Avatar == models.DefaultAvatar {
			user.Avatar = claim.PictureURL
			changed = true
		}
	case ProviderFederated:
		if user.FirebaseID == nil {
			user.FirebaseID = &claim.ExternalID
			changed = true
		}
	}
	if !user.IsVerified {
		user.IsVerified = true
		changed = true
	}

	if changed {
		if err := s.accounts.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// create builds a provider-reachable account with a synthesized username and
// no password hash. An insert conflict is either a lost reconciliation race
// (some other request created this identity first — resolve to that account)
// or a username collision (regenerate the suffix and try again).
func (s *Service) create(ctx context.Context, claim *Claim) (*models.User, error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		user := &models.User{
			Username:    synthesizeUsername(claim.Email),
			Email:       claim.Email,
			DisplayName: claim.DisplayName,
			Avatar:      models.DefaultAvatar,
			IsVerified:  true,
			LastActive:  time.Now(),
		}
		if claim.PictureURL != "" {
			user.Avatar = claim.PictureURL
		}
		switch claim.Provider {
		case ProviderOAuth:
			user.GoogleID = &claim.ExternalID
		case ProviderFederated:
			user.FirebaseID = &claim.ExternalID
		}

		err := s.accounts.Create(ctx, user)
		if err == nil {
			slog.Info("account created from provider claim",
				"user_id", user.ID,
				"provider", string(claim.Provider),
				"unverified_claim", claim.Unverified,
			)
			return user, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, err
		}

		if existing, lerr := s.lookupByExternalID(ctx, claim); lerr == nil {
			return existing, nil
		}
		if existing, lerr := s.accounts.ByEmail(ctx, claim.Email); lerr == nil {
			return s.merge(ctx, existing, claim)
		}
		// Username collision; loop regenerates the suffix.
	}
	return nil, fmt.Errorf("%w: could not synthesize a free username for %s", ErrDuplicateIdentity, claim.Email)
}

func (s *Service) touch(ctx context.Context, user *models.User) (*models.User, error) {
	user.LastActive = time.Now()
	if err := s.accounts.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// synthesizeUsername derives a handle from the email local-part plus a random
// numeric suffix. The suffix is not a secret; collisions are handled by the
// caller's retry loop against the unique index.
func synthesizeUsername(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}
	// Leave room for the suffix inside the 30-char username limit.
	if len(local) > 26 {
		local = local[:26]
	}
	if len(local) < 3 {
		local = local + "user"
	}
	return fmt.Sprintf("%s%d", local, rand.IntN(1000))
}

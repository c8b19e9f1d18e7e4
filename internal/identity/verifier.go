package identity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/idtoken"
)

// ErrVerification means no usable claim could be produced from the proof.
var ErrVerification = errors.New("credential verification failed")

// Verifier normalizes authentication proofs into Claims.
type Verifier struct {
	clientID string

	// validate is idtoken.Validate unless a test stubs it out.
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewVerifier builds a Verifier checking Google ID tokens against the given
// OAuth client ID.
func NewVerifier(googleClientID string) *Verifier {
	return &Verifier{
		clientID: googleClientID,
		validate: func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return idtoken.Validate(ctx, token, audience)
		},
	}
}

// Verify dispatches over the proof union and returns a normalized claim.
func (v *Verifier) Verify(ctx context.Context, proof Proof) (*Claim, error) {
	switch p := proof.(type) {
	case LocalProof:
		return &Claim{Email: NormalizeEmail(p.Email)}, nil
	case FederatedProof:
		if p.ExternalID == "" {
			return nil, fmt.Errorf("%w: empty federated id", ErrVerification)
		}
		email := NormalizeEmail(p.Email)
		return &Claim{
			Email:       email,
			DisplayName: displayNameFor("", email),
			ExternalID:  p.ExternalID,
			Provider:    ProviderFederated,
		}, nil
	case OAuthProof:
		return v.verifyGoogle(ctx, p.RawToken)
	default:
		return nil, fmt.Errorf("%w: unknown proof kind", ErrVerification)
	}
}

// verifyGoogle validates the token signature and audience against Google's
// certificate set. If validation itself errors (library or cert endpoint
// unreachable, as well as a genuinely bad token), it falls back to decoding
// the payload segment without any signature check. The fallback claim is
// marked Unverified and reported as a degraded-mode event; it exists for
// availability only and callers should normally reject it.
func (v *Verifier) verifyGoogle(ctx context.Context, rawToken string) (*Claim, error) {
	if rawToken == "" {
		return nil, fmt.Errorf("%w: empty token", ErrVerification)
	}

	payload, err := v.validate(ctx, rawToken, v.clientID)
	if err == nil {
		claim := claimFromGoogle(payload.Claims, payload.Subject)
		if claim.Email == "" {
			return nil, fmt.Errorf("%w: token carries no email", ErrVerification)
		}
		return claim, nil
	}

	claim, fallbackErr := decodeUnverified(rawToken)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerification, err)
	}
	slog.Warn("google token accepted via unverified fallback decode",
		"email", claim.Email,
		"verify_error", err.Error(),
	)
	return claim, nil
}

// googlePayload is the subset of Google ID-token claims this system reads.
type googlePayload struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Sub     string `json:"sub"`
	UserID  string `json:"user_id"`
}

// decodeUnverified base64url-decodes the middle token segment and parses it
// as a claims object. No signature is checked; anyone can fabricate such a
// segment. The result is always flagged Unverified.
func decodeUnverified(rawToken string) (*Claim, error) {
	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 {
		return nil, errors.New("token is not a three-part compact JWS")
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("decoding payload segment: %w", err)
	}

	var p googlePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing payload segment: %w", err)
	}

	externalID := p.Sub
	if externalID == "" {
		externalID = p.UserID
	}
	email := NormalizeEmail(p.Email)
	if email == "" || externalID == "" {
		return nil, errors.New("payload segment carries no usable identity")
	}

	return &Claim{
		Email:       email,
		DisplayName: displayNameFor(p.Name, email),
		PictureURL:  p.Picture,
		ExternalID:  externalID,
		Provider:    ProviderOAuth,
		Unverified:  true,
	}, nil
}

func claimFromGoogle(claims map[string]any, subject string) *Claim {
	str := func(key string) string {
		s, _ := claims[key].(string)
		return s
	}
	email := NormalizeEmail(str("email"))
	return &Claim{
		Email:       email,
		DisplayName: displayNameFor(str("name"), email),
		PictureURL:  str("picture"),
		ExternalID:  subject,
		Provider:    ProviderOAuth,
	}
}

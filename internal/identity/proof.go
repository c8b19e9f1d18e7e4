// Package identity collapses the three authentication paths (local password,
// federated-provider identity, Google ID token) into one canonical account
// record per person.
package identity

import "strings"

// ProviderKind labels which external provider a claim came from.
type ProviderKind string

const (
	ProviderNone      ProviderKind = ""
	ProviderFederated ProviderKind = "federated"
	ProviderOAuth     ProviderKind = "oauth"
)

// Proof is the tagged union of the supported authentication proofs. Exactly
// one concrete type is presented per login attempt.
type Proof interface {
	isProof()
}

// LocalProof is an email + password pair. The password is compared against
// the stored hash by the service, not the verifier.
type LocalProof struct {
	Email  string
	Secret string
}

// FederatedProof is a provider-issued identity established out of band. It is
// treated as authoritative; no cryptographic re-verification happens here.
type FederatedProof struct {
	Email      string
	ExternalID string
}

// OAuthProof is a raw Google ID token (compact JWS).
type OAuthProof struct {
	RawToken string
}

func (LocalProof) isProof()     {}
func (FederatedProof) isProof() {}
func (OAuthProof) isProof()     {}

// Claim is the normalized output of verification, independent of which proof
// produced it.
type Claim struct {
	Email       string
	DisplayName string
	PictureURL  string
	ExternalID  string
	Provider    ProviderKind

	// Unverified marks a claim produced by the signature-less fallback
	// decode. Such a claim can be fabricated by anyone holding the token
	// format; whether it is accepted is the caller's decision.
	Unverified bool
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique index agree on a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// displayNameFor falls back to the email local-part when a provider claim
// carries no name.
func displayNameFor(name, email string) string {
	if name != "" {
		return name
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/idtoken"
)

// ErrInvalidToken is returned when an ID token cannot be verified.
var ErrInvalidToken = errors.New("invalid Google token")

// Identity is the verified identity carried by a Google ID token.
type Identity struct {
	GoogleID  string
	Email     string
	FirstName string
	LastName  string

	// Role and GroupID are only filled by development tokens.
	Role    string
	GroupID *int64
	Dev     bool
}

// Verifier turns a client-supplied token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// NewVerifier returns a verifier backed by Google's public keys when clientID is
// set, otherwise a development verifier accepting "email|role|groupId" tokens.
func NewVerifier(clientID string) Verifier {
	if clientID == "" {
		return DevVerifier{}
	}
	return &idTokenVerifier{audience: clientID, validate: idtoken.Validate}
}

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type idTokenVerifier struct {
	audience string
	validate validateFunc
}

func (v *idTokenVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	payload, err := v.validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidToken)
	}
	given, _ := payload.Claims["given_name"].(string)
	family, _ := payload.Claims["family_name"].(string)

	return &Identity{
		GoogleID:  payload.Subject,
		Email:     strings.ToLower(email),
		FirstName: given,
		LastName:  family,
	}, nil
}

// DevVerifier accepts unsigned "email|role|groupId" tokens. Anything without a
// pipe is treated as an opaque legacy token and mapped to a student address.
type DevVerifier struct{}

func (DevVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	if !strings.Contains(token, "|") {
		prefix := token
		if len(prefix) > 12 {
			prefix = prefix[:12]
		}
		local := prefix
		if len(local) > 8 {
			local = local[:8]
		}
		return &Identity{
			GoogleID:  "dev-" + prefix,
			Email:     strings.ToLower(local) + "@student.usv.ro",
			FirstName: "Dev",
			LastName:  "User",
			Dev:       true,
		}, nil
	}

	parts := strings.Split(token, "|")
	email := strings.ToLower(strings.TrimSpace(parts[0]))
	local, _, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return nil, fmt.Errorf("%w: malformed email %q", ErrInvalidToken, parts[0])
	}

	id := &Identity{
		GoogleID:  "dev-" + local,
		Email:     email,
		FirstName: "Test",
		LastName:  strings.ToUpper(local[:1]) + local[1:],
		Dev:       true,
	}
	if len(parts) >= 2 {
		id.Role = strings.ToUpper(strings.TrimSpace(parts[1]))
	}
	if len(parts) >= 3 && parts[2] != "null" {
		if gid, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64); err == nil {
			id.GroupID = &gid
		}
	}
	return id, nil
}

package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/pkg/auth"
)

// Store persists collected records and returns their new ids
type Store interface {
	CreateGroup(ctx context.Context, req dto.GroupRequest) (int64, error)
	CreateRoom(ctx context.Context, req dto.RoomRequest) (int64, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (int64, error)
	CreateSubject(ctx context.Context, req dto.SubjectRequest) (int64, error)
}

// TokenSource returns the bearer token sent with every store request
type TokenSource func() (string, error)

// ServiceToken signs a short-lived secretariat token for every request. Secretariat rights
// cover the create endpoints but not administrator accounts.
func ServiceToken(jwtService *auth.JWTService) TokenSource {
	account := &models.User{Email: "collector@service.local", FirstName: "Collector", Role: models.RoleSecretariat}
	return func() (string, error) {
		token, _, err := jwtService.GenerateAccessToken(account)
		return token, err
	}
}

type apiStore struct {
	baseURL string
	client  *http.Client
	token   TokenSource
}

// NewAPIStore creates a Store that posts to the create endpoints of the API. A nil token
// source sends unauthenticated requests.
func NewAPIStore(baseURL string, timeout time.Duration, token TokenSource) Store {
	return &apiStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		token:   token,
	}
}

type createdEnvelope struct {
	Data struct {
		ID int64 `json:"id"`
	} `json:"data"`
	Error *dto.ErrorDetail `json:"error"`
}

func (s *apiStore) post(ctx context.Context, path string, payload interface{}) (int64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.token != nil {
		token, err := s.token()
		if err != nil {
			return 0, fmt.Errorf("sign service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, err
	}

	var env createdEnvelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && env.Error != nil && env.Error.Message != "" {
			return 0, fmt.Errorf("status %d: %s", resp.StatusCode, env.Error.Message)
		}
		return 0, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if decodeErr != nil {
		return 0, fmt.Errorf("decode response of %s: %w", path, decodeErr)
	}
	return env.Data.ID, nil
}

func (s *apiStore) CreateGroup(ctx context.Context, req dto.GroupRequest) (int64, error) {
	return s.post(ctx, "/groups", req)
}

func (s *apiStore) CreateRoom(ctx context.Context, req dto.RoomRequest) (int64, error) {
	return s.post(ctx, "/rooms", req)
}

func (s *apiStore) CreateUser(ctx context.Context, req dto.CreateUserRequest) (int64, error) {
	return s.post(ctx, "/users", req)
}

func (s *apiStore) CreateSubject(ctx context.Context, req dto.SubjectRequest) (int64, error) {
	return s.post(ctx, "/subjects", req)
}

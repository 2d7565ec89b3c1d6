package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend-safedrive/internal/kvstore"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour

	tokenAccess  = "access"
	tokenRefresh = "refresh"

	refreshKeyPrefix = "refresh:"
)

var (
	ErrInvalidPairingCode = errors.New("invalid pairing code")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrRefreshRevoked     = errors.New("refresh token invalid")
)

// Service pairs the device app with the local gateway. A device proves it
// knows the pairing code once and then works with short-lived access tokens.
type Service struct {
	secret   []byte
	codeHash []byte
	tokens   kvstore.Store
}

type Claims struct {
	DeviceID  string `json:"device_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type PairRequest struct {
	DeviceID    string `json:"device_id"`
	PairingCode string `json:"pairing_code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

var (
	hashPairingCodeFn = bcrypt.GenerateFromPassword
	signTokenFn       = (*Service).signToken
)

// NewService hashes the pairing code so it is never kept in memory in clear.
// Refresh token ids are recorded in tokens so they can be rotated.
func NewService(secret, pairingCode string, tokens kvstore.Store) (*Service, error) {
	hash, err := hashPairingCodeFn([]byte(pairingCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash pairing code: %w", err)
	}
	if tokens == nil {
		tokens = kvstore.NewMemory()
	}
	return &Service{secret: []byte(secret), codeHash: hash, tokens: tokens}, nil
}

func (s *Service) Pair(ctx context.Context, req PairRequest) (TokenResponse, error) {
	if req.DeviceID == "" || req.PairingCode == "" {
		return TokenResponse{}, errors.New("device_id and pairing_code required")
	}
	if err := bcrypt.CompareHashAndPassword(s.codeHash, []byte(req.PairingCode)); err != nil {
		return TokenResponse{}, ErrInvalidPairingCode
	}
	return s.GenerateTokens(ctx, req.DeviceID)
}

func (s *Service) GenerateTokens(ctx context.Context, deviceID string) (TokenResponse, error) {
	access, _, err := signTokenFn(s, deviceID, tokenAccess, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, jti, err := signTokenFn(s, deviceID, tokenRefresh, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.tokens.SetString(ctx, refreshKeyPrefix+jti, deviceID); err != nil {
		return TokenResponse{}, fmt.Errorf("save refresh token: %w", err)
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

// Refresh exchanges a refresh token for a new token pair. The presented
// refresh token is revoked.
func (s *Service) Refresh(ctx context.Context, token string) (TokenResponse, error) {
	claims, err := s.parseToken(token, tokenRefresh)
	if err != nil {
		return TokenResponse{}, err
	}

	key := refreshKeyPrefix + claims.ID
	deviceID, ok, err := s.tokens.GetString(ctx, key)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("lookup refresh token: %w", err)
	}
	if !ok || deviceID != claims.DeviceID {
		return TokenResponse{}, ErrRefreshRevoked
	}
	if err := s.tokens.SetString(ctx, key, ""); err != nil {
		return TokenResponse{}, fmt.Errorf("revoke refresh token: %w", err)
	}
	return s.GenerateTokens(ctx, claims.DeviceID)
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token, tokenAccess)
	if err != nil {
		return "", err
	}
	return claims.DeviceID, nil
}

func (s *Service) signToken(deviceID, tokenType string, ttl time.Duration) (string, string, error) {
	now := time.Now()
	claims := Claims{
		DeviceID:  deviceID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return signed, claims.ID, nil
}

func (s *Service) parseToken(token, tokenType string) (*Claims, error) {
	claims, err := parseClaims(s.secret, token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func parseClaims(secret []byte, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

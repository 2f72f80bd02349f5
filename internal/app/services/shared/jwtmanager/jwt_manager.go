package jwtmanager

import (
	"context"
	"delivery-slot-service/internal/app/config"
	"delivery-slot-service/internal/pkg/constvars"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// PrincipalClaims is the token shape issued by the identity provider.
type PrincipalClaims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 principal tokens.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type CreateTokenInput struct {
	Subject string
	Email   string
	Roles   []string
}

type CreateTokenOutput struct {
	Token     string
	ExpiresAt time.Time
}

type VerifyTokenInput struct {
	Token string
}

type VerifyTokenOutput struct {
	Valid  bool
	Claims *PrincipalClaims
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) (*JWTManager, error) {
	secret := strings.TrimSpace(cfg.JWT.Secret)
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	ttl := time.Duration(cfg.JWT.ExpTimeInHour) * time.Hour
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}

	return &JWTManager{
		log:    log,
		secret: []byte(secret),
		issuer: strings.TrimSpace(cfg.JWT.Issuer),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// CreateToken is used by tooling and tests; production tokens come from the
// identity provider sharing the same secret.
func (j *JWTManager) CreateToken(ctx context.Context, in *CreateTokenInput) (*CreateTokenOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Debug("JWTManager.CreateToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if in == nil || strings.TrimSpace(in.Subject) == "" {
		return nil, fmt.Errorf("subject is required")
	}

	now := j.now().UTC()
	expiresAt := now.Add(j.ttl)
	claims := PrincipalClaims{
		Email: in.Email,
		Roles: in.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   in.Subject,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return nil, err
	}
	return &CreateTokenOutput{Token: signed, ExpiresAt: expiresAt}, nil
}

// VerifyToken checks signature, algorithm, expiry and, when configured, the
// issuer. An invalid token is reported through Valid, not through err.
func (j *JWTManager) VerifyToken(ctx context.Context, in *VerifyTokenInput) (*VerifyTokenOutput, error) {
	if in == nil || strings.TrimSpace(in.Token) == "" {
		return &VerifyTokenOutput{Valid: false}, fmt.Errorf("token is required")
	}

	claims := &PrincipalClaims{}
	parsed, err := jwt.ParseWithClaims(in.Token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		j.log.Debug("JWTManager.VerifyToken rejected token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return &VerifyTokenOutput{Valid: false}, nil
	}

	if j.issuer != "" && !claims.VerifyIssuer(j.issuer, true) {
		return &VerifyTokenOutput{Valid: false}, nil
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return &VerifyTokenOutput{Valid: false}, errors.New("token has no subject")
	}

	return &VerifyTokenOutput{Valid: true, Claims: claims}, nil
}

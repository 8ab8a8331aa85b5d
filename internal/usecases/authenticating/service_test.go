package authenticating

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

var issuedAt = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestService(t *testing.T, now *time.Time) *Service {
	t.Helper()
	cfg := config.Auth{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
		Operators: []string{
			"sarah.jenkins@aegis.io:sales_engineer:" + hashPassword(t, "s3cret!"),
			"ops@aegis.io:admin:" + hashPassword(t, "r00t!"),
		},
	}
	svc, err := newService(cfg, func() time.Time { return *now })
	require.NoError(t, err)
	return svc
}

func TestParseOperators(t *testing.T) {
	validHash := hashPassword(t, "pw")

	tests := []struct {
		name     string
		entries  []string
		wantErr  bool
		validate func(t *testing.T, operators map[string]*domain.Operator)
	}{
		{
			name:    "valid entries are normalized",
			entries: []string{" Sarah.Jenkins@Aegis.io :sales_engineer:" + validHash, "cs@aegis.io:customer_success:" + validHash},
			validate: func(t *testing.T, operators map[string]*domain.Operator) {
				require.Len(t, operators, 2)
				assert.Equal(t, domain.RoleSalesEngineer, operators["sarah.jenkins@aegis.io"].Role)
				assert.Equal(t, domain.RoleCustomerSuccess, operators["cs@aegis.io"].Role)
			},
		},
		{name: "empty list", entries: nil, validate: func(t *testing.T, operators map[string]*domain.Operator) { assert.Empty(t, operators) }},
		{name: "missing hash", entries: []string{"ops@aegis.io:admin"}, wantErr: true},
		{name: "unknown role", entries: []string{"ops@aegis.io:root:" + validHash}, wantErr: true},
		{name: "not a bcrypt hash", entries: []string{"ops@aegis.io:admin:plaintext"}, wantErr: true},
		{name: "duplicate operator", entries: []string{"ops@aegis.io:admin:" + validHash, "OPS@aegis.io:admin:" + validHash}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			operators, err := ParseOperators(tt.entries)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidOperator))
				return
			}
			require.NoError(t, err)
			tt.validate(t, operators)
		})
	}
}

func TestNewService_RequiresSecret(t *testing.T) {
	_, err := NewService(config.Auth{})
	assert.True(t, errors.Is(err, ErrInvalidOperator))
}

func TestLogin(t *testing.T) {
	now := issuedAt
	svc := newTestService(t, &now)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantCode string
	}{
		{name: "valid credentials", email: "Sarah.Jenkins@aegis.io", password: "s3cret!"},
		{name: "wrong password", email: "sarah.jenkins@aegis.io", password: "guess", wantErr: ErrInvalidCredentials, wantCode: apiErrors.ErrInvalidCredentials},
		{name: "unknown operator", email: "ghost@aegis.io", password: "s3cret!", wantErr: ErrInvalidCredentials, wantCode: apiErrors.ErrInvalidCredentials},
		{name: "missing password", email: "ops@aegis.io", wantErr: ErrMissingRequiredData, wantCode: apiErrors.ErrMissingRequiredData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				var authErr *AuthError
				require.True(t, errors.As(err, &authErr))
				assert.Equal(t, tt.wantCode, authErr.Code)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, resp.Token)
			assert.Equal(t, issuedAt.Add(time.Hour).Unix(), resp.ExpiresAt)

			claims, err := svc.ValidateToken(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, "sarah.jenkins@aegis.io", claims.OperatorEmail)
			assert.Equal(t, domain.RoleSalesEngineer, claims.OperatorRole)
		})
	}
}

func TestValidateToken(t *testing.T) {
	now := issuedAt
	svc := newTestService(t, &now)

	resp, err := svc.Login("ops@aegis.io", "r00t!")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		now = issuedAt.Add(2 * time.Hour)
		defer func() { now = issuedAt }()

		_, err := svc.ValidateToken(resp.Token)
		assert.True(t, errors.Is(err, ErrExpiredToken))
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.Claims{
			OperatorEmail: "ops@aegis.io",
			OperatorRole:  domain.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			},
		})
		signed, err := other.SignedString([]byte("another-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("without expiration", func(t *testing.T) {
		forever := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.Claims{
			OperatorEmail: "ops@aegis.io",
			OperatorRole:  domain.RoleAdmin,
		})
		signed, err := forever.SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("role escalated in claims", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.Claims{
			OperatorEmail: "sarah.jenkins@aegis.io",
			OperatorRole:  domain.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			},
		})
		signed, err := forged.SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.True(t, IsAuthorizationError(err))
	})
}

func TestGetOperator(t *testing.T) {
	now := issuedAt
	svc := newTestService(t, &now)

	operator, err := svc.GetOperator("OPS@aegis.io")
	require.NoError(t, err)
	assert.Equal(t, &domain.Operator{Email: "ops@aegis.io", Role: domain.RoleAdmin}, operator)

	_, err = svc.GetOperator("ghost@aegis.io")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

package authenticating

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
	"github.com/vfg2006/aegis-admin-api/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

const defaultTokenTTL = 12 * time.Hour

type Authenticator interface {
	Login(email, password string) (*domain.LoginResponse, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	GetOperator(email string) (*domain.Operator, error)
}

type Service struct {
	operators map[string]*domain.Operator
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewService(cfg config.Auth) (Authenticator, error) {
	return newService(cfg, time.Now)
}

func newService(cfg config.Auth, now func() time.Time) (*Service, error) {
	if cfg.Secret == "" {
		return nil, NewAuthError(ErrInvalidOperator, apiErrors.ErrInternalServer, "AUTH_SECRET vazio")
	}

	operators, err := ParseOperators(cfg.Operators)
	if err != nil {
		return nil, err
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	if len(operators) == 0 {
		log.L.Warn("Nenhum operador configurado em AUTH_OPERATORS, login indisponível")
	}

	return &Service{
		operators: operators,
		secret:    []byte(cfg.Secret),
		tokenTTL:  ttl,
		now:       now,
	}, nil
}

// ParseOperators interpreta entradas no formato email:role:bcrypt_hash
func ParseOperators(entries []string) (map[string]*domain.Operator, error) {
	operators := make(map[string]*domain.Operator, len(entries))

	for _, entry := range entries {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) != 3 {
			return nil, NewAuthError(ErrInvalidOperator, apiErrors.ErrInternalServer,
				fmt.Sprintf("entrada %q fora do formato email:role:hash", entry))
		}

		email := normalizeEmail(parts[0])
		role := domain.Role(strings.TrimSpace(parts[1]))
		hash := strings.TrimSpace(parts[2])

		if email == "" || hash == "" {
			return nil, NewAuthError(ErrInvalidOperator, apiErrors.ErrInternalServer,
				fmt.Sprintf("entrada %q sem email ou hash", entry))
		}
		if !role.IsValid() {
			return nil, NewOperatorAuthError(ErrInvalidOperator, apiErrors.ErrInternalServer, email,
				fmt.Sprintf("role desconhecido %q", role))
		}
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, NewOperatorAuthError(ErrInvalidOperator, apiErrors.ErrInternalServer, email, "hash bcrypt inválido")
		}
		if _, exists := operators[email]; exists {
			return nil, NewOperatorAuthError(ErrInvalidOperator, apiErrors.ErrInternalServer, email, "operador duplicado")
		}

		operators[email] = &domain.Operator{Email: email, Role: role, PasswordHash: hash}
	}

	return operators, nil
}

func normalizeEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) Login(email, password string) (*domain.LoginResponse, error) {
	if email == "" || password == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	email = normalizeEmail(email)

	// Operador desconhecido e senha errada respondem igual
	operator, exists := s.operators[email]
	if !exists {
		return nil, NewOperatorAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, email, "Credenciais inválidas")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)); err != nil {
		return nil, NewOperatorAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, email, "Credenciais inválidas")
	}

	expiresAt := s.now().Add(s.tokenTTL)

	token, err := s.generateJWT(operator, expiresAt)
	if err != nil {
		return nil, NewAuthError(errors.Wrap(err, "assinando token"), apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	log.L.WithFields(log.Fields{
		"operator_email": operator.Email,
		"operator_role":  operator.Role,
	}).Info("Login realizado")

	return &domain.LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}

func (s *Service) GetOperator(email string) (*domain.Operator, error) {
	email = normalizeEmail(email)

	operator, exists := s.operators[email]
	if !exists {
		return nil, NewOperatorAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, email, "Operador não encontrado")
	}

	return &domain.Operator{Email: operator.Email, Role: operator.Role}, nil
}

func (s *Service) generateJWT(operator *domain.Operator, expiresAt time.Time) (string, error) {
	claims := domain.Claims{
		OperatorEmail: operator.Email,
		OperatorRole:  operator.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator.Email,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "Token expirado")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "Token inválido")
	}

	// O operador pode ter sido removido da configuração depois da emissão
	operator, exists := s.operators[claims.OperatorEmail]
	if !exists || operator.Role != claims.OperatorRole {
		return nil, NewOperatorAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, claims.OperatorEmail, "Operador não reconhecido")
	}

	return claims, nil
}

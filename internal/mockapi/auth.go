package mockapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/minimall/storefront-client/internal/core/domain"
)

const tokenTTL = 24 * time.Hour

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, 400, err.Error())
	}

	s.mu.Lock()
	acct, found := s.users[req.Username]
	s.mu.Unlock()

	if !found || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(req.Password)) != nil {
		return fail(c, 400, "invalid username or password")
	}

	token, err := s.generateToken(acct)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "token generation failed")
	}

	return ok(c, domain.LoginResult{
		ID:       acct.ID,
		Username: acct.Username,
		Role:     acct.Role,
		Token:    token,
	})
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Role     int    `json:"role"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, 400, err.Error())
	}

	role := domain.Role(req.Role)
	if role == domain.RoleNone {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return fail(c, 400, "invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "hash failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Username]; exists {
		return fail(c, 409, domain.ErrUserExists.Error())
	}
	s.users[req.Username] = &account{
		ID:           s.nextUserID,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
	}
	s.nextUserID++

	return ok(c, nil)
}

type emailRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

func (s *Server) registerByEmail(c echo.Context) error {
	var req emailRegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, 400, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "hash failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Username]; exists {
		return fail(c, 409, domain.ErrUserExists.Error())
	}
	for _, a := range s.users {
		if a.Email == req.Email {
			return fail(c, 409, domain.ErrUserExists.Error())
		}
	}
	s.users[req.Username] = &account{
		ID:           s.nextUserID,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	s.nextUserID++

	return ok(c, nil)
}

func (s *Server) generateToken(acct *account) (string, error) {
	claims := jwt.MapClaims{
		"id":       acct.ID,
		"username": acct.Username,
		"role":     int(acct.Role),
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

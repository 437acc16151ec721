package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/whiskerworks/cats-api/internal/api/metrics"
	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

// UserHandler handles HTTP requests for accounts and sessions.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Message: "OK",
		Token:   res.Token,
		User:    toPrincipalResponse(domain.PrincipalFromUser(res.User)),
	})
}

// Register creates a new user account with role "user".
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  envelope{data=publicUser}
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	metrics.UsersRegisteredTotal.Inc()

	return c.JSON(http.StatusOK, envelope{Message: "OK", Data: toPublicUser(user)})
}

// List returns every user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   publicUser
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPublicUsers(users))
}

// Get returns one user.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  publicUser
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPublicUser(user))
}

// CheckToken echoes the identity carried by the bearer token. It never
// reads the user store.
//
// @Summary      Inspect the current token
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  principalResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/check-token [get]
func (h *UserHandler) CheckToken(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPrincipalResponse(*p))
}

// Update changes the caller's own account.
//
// @Summary      Update the current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  envelope{data=publicUser}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users [put]
func (h *UserHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateSelf(c.Request().Context(), p, ports.UpdateUserInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Message: "User updated", Data: toPublicUser(user)})
}

// Delete removes the caller's account and every cat it owns.
//
// @Summary      Delete the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=publicUser}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	user, err := h.service.DeleteSelf(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Message: "User deleted", Data: toPublicUser(user)})
}

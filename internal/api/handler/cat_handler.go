package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/whiskerworks/cats-api/internal/api/metrics"
	"github.com/whiskerworks/cats-api/internal/core/domain"
	"github.com/whiskerworks/cats-api/internal/core/geo"
	"github.com/whiskerworks/cats-api/internal/core/ports"
)

// CatHandler handles HTTP requests for cat operations.
type CatHandler struct {
	service ports.CatService
}

func NewCatHandler(service ports.CatService) *CatHandler {
	return &CatHandler{service: service}
}

// List returns every cat with its owner.
//
// @Summary      List cats
// @Tags         cats
// @Produce      json
// @Success      200  {array}   catResponse
// @Router       /cats [get]
func (h *CatHandler) List(c echo.Context) error {
	cats, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCatResponses(cats))
}

// Get returns one cat.
//
// @Summary      Get a cat
// @Tags         cats
// @Produce      json
// @Param        id   path      string  true  "Cat id"
// @Success      200  {object}  catResponse
// @Failure      404  {object}  map[string]string
// @Router       /cats/{id} [get]
func (h *CatHandler) Get(c echo.Context) error {
	cat, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCatResponse(*cat))
}

// ListMine returns the caller's cats.
//
// @Summary      List my cats
// @Tags         cats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   catResponse
// @Failure      401  {object}  map[string]string
// @Router       /cats/user [get]
func (h *CatHandler) ListMine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	cats, err := h.service.ListMine(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCatResponses(cats))
}

// ListInArea returns cats inside a latitude/longitude rectangle, boundary
// included. The four bounds are required; min and max may be swapped.
//
// @Summary      List cats in a bounding box
// @Tags         cats
// @Produce      json
// @Param        minLat  query     number  true  "One latitude bound"
// @Param        maxLat  query     number  true  "Other latitude bound"
// @Param        minLon  query     number  true  "One longitude bound"
// @Param        maxLon  query     number  true  "Other longitude bound"
// @Success      200     {array}   catResponse
// @Failure      400     {object}  map[string]string
// @Router       /cats/area [get]
func (h *CatHandler) ListInArea(c echo.Context) error {
	var a, b geo.Coordinate
	err := echo.QueryParamsBinder(c).
		MustFloat64("minLat", &a.Lat).
		MustFloat64("minLon", &a.Lon).
		MustFloat64("maxLat", &b.Lat).
		MustFloat64("maxLon", &b.Lon).
		BindError()
	if err != nil {
		var be *echo.BindingError
		if errors.As(err, &be) {
			return fmt.Errorf("%w: %s %v", domain.ErrInvalidArgument, be.Field, be.Message)
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	cats, err := h.service.ListWithinBox(c.Request().Context(), a, b)
	if err != nil {
		return err
	}
	metrics.BoundingBoxResults.Observe(float64(len(cats)))
	return c.JSON(http.StatusOK, toCatResponses(cats))
}

// Create stores a cat owned by the caller.
//
// @Summary      Create a cat
// @Tags         cats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCatRequest  true  "Cat details"
// @Success      201   {object}  envelope{data=catResponse}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /cats [post]
func (h *CatHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createCatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toCreateCatInput(req)
	if err != nil {
		return err
	}

	cat, err := h.service.Create(c.Request().Context(), p, in)
	recordMutation("create", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope{Message: "Cat created", Data: toCatResponse(*cat)})
}

// Update changes a cat. Only its owner or an admin may do so, and only an
// admin may change the owner.
//
// @Summary      Update a cat
// @Tags         cats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Cat id"
// @Param        body  body      updateCatRequest  true  "Fields to change"
// @Success      200   {object}  envelope{data=catResponse}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /cats/{id} [put]
func (h *CatHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateCatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toUpdateCatInput(req)
	if err != nil {
		return err
	}

	cat, err := h.service.Update(c.Request().Context(), p, c.Param("id"), in)
	recordMutation("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Message: "Cat updated", Data: toCatResponse(*cat)})
}

// Delete removes a cat. Only its owner or an admin may do so.
//
// @Summary      Delete a cat
// @Tags         cats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cat id"
// @Success      200  {object}  envelope{data=deletedCatResponse}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /cats/{id} [delete]
func (h *CatHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	cat, err := h.service.Delete(c.Request().Context(), p, c.Param("id"))
	recordMutation("delete", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Message: "Cat deleted", Data: deletedCatResponse{ID: cat.ID}})
}

func recordMutation(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrForbidden):
		result = "forbidden"
	case errors.Is(err, domain.ErrInvalidArgument):
		result = "invalid"
	case errors.Is(err, domain.ErrCatNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.CatMutationsTotal.WithLabelValues(op, result).Inc()
}

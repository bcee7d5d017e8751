package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cursomc/commerce-api/internal/api/metrics"
	"github.com/cursomc/commerce-api/internal/core/domain"
	"github.com/cursomc/commerce-api/internal/core/ports"
)

const (
	defaultLinesPerPage = 24
	defaultOrderBy      = "name"
	defaultDirection    = "ASC"

	DefaultMaxUploadBytes int64 = 5 << 20
)

// CustomerHandler handles HTTP requests for customer operations. Authorization
// decisions are made by the service; the handler only translates HTTP.
type CustomerHandler struct {
	service        ports.CustomerService
	maxUploadBytes int64
}

func NewCustomerHandler(service ports.CustomerService, maxUploadBytes int64) *CustomerHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &CustomerHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Find handles GET /clientes/:id.
//
// @Summary      Get a customer
// @Description  Admins may read any customer; other callers only themselves.
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Customer id"
// @Success      200  {object}  customerResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clientes/{id} [get]
func (h *CustomerHandler) Find(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	customer, err := h.service.Find(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// FindByEmail handles GET /clientes/email?value=.
//
// @Summary      Get a customer by email
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        value  query     string  true  "Email"
// @Success      200    {object}  customerResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /clientes/email [get]
func (h *CustomerHandler) FindByEmail(c echo.Context) error {
	email := c.QueryParam("value")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "value is required")
	}

	customer, err := h.service.FindByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Insert handles POST /clientes.
//
// @Summary      Register a customer
// @Tags         customers
// @Accept       json
// @Param        body  body  newCustomerRequest  true  "Customer with first address and phones"
// @Success      201   "Location header points at the new customer"
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /clientes [post]
func (h *CustomerHandler) Insert(c echo.Context) error {
	var req newCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.service.Insert(c.Request().Context(), ports.NewCustomerInput{
		Name:       req.Name,
		Email:      req.Email,
		Document:   req.Document,
		Type:       req.Type,
		Password:   req.Password,
		Street:     req.Street,
		Number:     req.Number,
		Complement: req.Complement,
		District:   req.District,
		ZipCode:    req.ZipCode,
		CityID:     req.CityID,
		Phone1:     req.Phone1,
		Phone2:     req.Phone2,
		Phone3:     req.Phone3,
	})
	if err != nil {
		return err
	}

	metrics.CustomersCreatedTotal.Inc()
	c.Response().Header().Set(echo.HeaderLocation, "/clientes/"+strconv.FormatInt(created.ID, 10))
	return c.NoContent(http.StatusCreated)
}

// Update handles PUT /clientes/:id.
//
// @Summary      Update a customer's name and email
// @Tags         customers
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int                    true  "Customer id"
// @Param        body  body  updateCustomerRequest  true  "New name and email"
// @Success      204
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /clientes/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.service.Update(c.Request().Context(), id, ports.UpdateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /clientes/:id.
//
// @Summary      Delete a customer
// @Tags         customers
// @Security     BearerAuth
// @Param        id   path  int  true  "Customer id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /clientes/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /clientes.
//
// @Summary      List all customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   customerSummary
// @Failure      403  {object}  errorResponse
// @Router       /clientes [get]
func (h *CustomerHandler) List(c echo.Context) error {
	all, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerSummaries(all))
}

// Page handles GET /clientes/page.
//
// @Summary      List customers page by page
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        page          query     int     false  "Zero-based page"     default(0)
// @Param        linesPerPage  query     int     false  "Page size"           default(24)
// @Param        orderBy       query     string  false  "Sort field"          default(name)
// @Param        direction     query     string  false  "ASC or DESC"         default(ASC)
// @Success      200           {object}  customerPageResponse
// @Failure      400           {object}  errorResponse
// @Failure      403           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Router       /clientes/page [get]
func (h *CustomerHandler) Page(c echo.Context) error {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "linesPerPage", defaultLinesPerPage)
	if err != nil {
		return err
	}
	if size == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "linesPerPage must be positive")
	}

	result, err := h.service.ListPage(c.Request().Context(), ports.ListCustomersInput{
		Page:      page,
		Size:      size,
		SortField: queryString(c, "orderBy", defaultOrderBy),
		Direction: queryString(c, "direction", defaultDirection),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customerPageResponse{
		Content:       toCustomerSummaries(result.Content),
		Number:        result.Number,
		Size:          result.Size,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
	})
}

// UploadPicture handles POST /clientes/picture.
//
// @Summary      Upload the caller's profile picture
// @Description  The image is cropped to a centered square, resized and stored as JPEG.
// @Tags         customers
// @Accept       multipart/form-data
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image (jpeg, png, gif, webp, bmp)"
// @Success      201   "Location header points at the stored picture"
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      413   {object}  errorResponse
// @Failure      415   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /clientes/picture [post]
func (h *CustomerHandler) UploadPicture(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > h.maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > h.maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	start := time.Now()
	locator, err := h.service.UploadProfilePicture(c.Request().Context(), domain.UploadedImage{
		Data:        data,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Filename:    fh.Filename,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrAuthorization) {
			metrics.ProfilePicturesFailedTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
		}
		return err
	}
	metrics.ProfilePictureUploadDuration.Observe(time.Since(start).Seconds())
	metrics.ProfilePicturesUploadedTotal.Inc()

	c.Response().Header().Set(echo.HeaderLocation, locator)
	return c.NoContent(http.StatusCreated)
}

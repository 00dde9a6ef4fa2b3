package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-portal/internal/model"
	"github.com/iliyamo/vacation-portal/internal/service"
)

// VacationHandler serves the vacation views.
type VacationHandler struct {
	Vacations *service.VacationService
}

func NewVacationHandler(v *service.VacationService) *VacationHandler {
	return &VacationHandler{Vacations: v}
}

// Home returns the vacation list with the caller's likes and affordances.
func (h *VacationHandler) Home(c echo.Context) error {
	view, err := h.Vacations.Home(c.Request().Context())
	if err != nil {
		return fail(c, err, "Failed to load vacations")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *VacationHandler) Countries(c echo.Context) error {
	countries, err := h.Vacations.Countries(c.Request().Context())
	if err != nil {
		return fail(c, err, "Failed to load countries")
	}
	return c.JSON(http.StatusOK, countries)
}

func (h *VacationHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Vacations.Vacation(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, "Failed to load vacation")
	}
	return c.JSON(http.StatusOK, v)
}

// Create accepts JSON, or multipart/form-data with an optional "image" file.
func (h *VacationHandler) Create(c echo.Context) error {
	var in model.VacationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	img, closeImg, err := imageFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image upload"})
	}
	defer closeImg()

	v, err := h.Vacations.Create(c.Request().Context(), in, img)
	if err != nil {
		return fail(c, err, "Failed to create vacation")
	}
	return c.JSON(http.StatusCreated, v)
}

// Update applies the fields present in the request.
func (h *VacationHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var patch model.VacationPatch
	if isMultipart(c) {
		p, err := patchFromForm(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		patch = p
	} else if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	img, closeImg, err := imageFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image upload"})
	}
	defer closeImg()

	v, err := h.Vacations.Update(c.Request().Context(), id, patch, img)
	if err != nil {
		return fail(c, err, "Failed to update vacation")
	}
	return c.JSON(http.StatusOK, v)
}

func (h *VacationHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Vacations.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err, "Failed to delete vacation")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *VacationHandler) Like(c echo.Context) error {
	return h.toggle(c, true)
}

func (h *VacationHandler) Unlike(c echo.Context) error {
	return h.toggle(c, false)
}

func (h *VacationHandler) toggle(c echo.Context, like bool) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var (
		view service.HomeView
		err  error
	)
	if like {
		view, err = h.Vacations.Like(c.Request().Context(), id)
	} else {
		view, err = h.Vacations.Unlike(c.Request().Context(), id)
	}
	if err != nil {
		return fail(c, err, "Failed to update like")
	}
	return c.JSON(http.StatusOK, view)
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// imageFrom opens the optional "image" upload.  The returned func closes it
// and is safe to call when there is no image.
func imageFrom(c echo.Context) (*model.ImageFile, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		return nil, noop, nil
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &model.ImageFile{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}

// patchFromForm reads only the fields present in a multipart edit form.
func patchFromForm(c echo.Context) (model.VacationPatch, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return model.VacationPatch{}, errors.New("invalid form")
	}
	value := func(name string) (string, bool) { return formValue(form, name) }

	var p model.VacationPatch
	if v, ok := value("countryId"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return model.VacationPatch{}, errors.New("countryId must be a number")
		}
		p.CountryID = &n
	}
	if v, ok := value("description"); ok {
		p.Description = &v
	}
	if v, ok := value("startDate"); ok {
		p.StartDate = &v
	}
	if v, ok := value("endDate"); ok {
		p.EndDate = &v
	}
	if v, ok := value("price"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return model.VacationPatch{}, errors.New("price must be a number")
		}
		p.Price = &f
	}
	return p, nil
}

func formValue(form *multipart.Form, name string) (string, bool) {
	vs, ok := form.Value[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

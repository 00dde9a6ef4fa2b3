package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/iliyamo/vacation-portal/internal/model"
)

func (c *Client) ListVacations(ctx context.Context) ([]model.Vacation, error) {
	var out []model.Vacation
	err := c.do(ctx, http.MethodGet, "/vacations", nil, "", &out)
	return out, err
}

func (c *Client) GetVacation(ctx context.Context, id int64) (model.Vacation, error) {
	var out model.Vacation
	err := c.do(ctx, http.MethodGet, "/vacations/"+strconv.FormatInt(id, 10), nil, "", &out)
	return out, err
}

// CreateVacation sends in as JSON, or as multipart/form-data when img is set.
func (c *Client) CreateVacation(ctx context.Context, in model.VacationInput, img *model.ImageFile) (model.Vacation, error) {
	var out model.Vacation
	if img == nil {
		err := c.do(ctx, http.MethodPost, "/vacations", in, "", &out)
		return out, err
	}
	fields := []formField{
		{"countryId", strconv.FormatInt(in.CountryID, 10)},
		{"description", in.Description},
		{"startDate", in.StartDate},
		{"endDate", in.EndDate},
		{"price", formatPrice(in.Price)},
	}
	body, ct, err := multipartBody(fields, img)
	if err != nil {
		return out, err
	}
	err = c.do(ctx, http.MethodPost, "/vacations", body, ct, &out)
	return out, err
}

// UpdateVacation sends only the fields set in patch.
func (c *Client) UpdateVacation(ctx context.Context, id int64, patch model.VacationPatch, img *model.ImageFile) (model.Vacation, error) {
	var out model.Vacation
	path := "/vacations/" + strconv.FormatInt(id, 10)
	if img == nil {
		err := c.do(ctx, http.MethodPut, path, patch, "", &out)
		return out, err
	}
	var fields []formField
	if patch.CountryID != nil {
		fields = append(fields, formField{"countryId", strconv.FormatInt(*patch.CountryID, 10)})
	}
	if patch.Description != nil {
		fields = append(fields, formField{"description", *patch.Description})
	}
	if patch.StartDate != nil {
		fields = append(fields, formField{"startDate", *patch.StartDate})
	}
	if patch.EndDate != nil {
		fields = append(fields, formField{"endDate", *patch.EndDate})
	}
	if patch.Price != nil {
		fields = append(fields, formField{"price", formatPrice(*patch.Price)})
	}
	body, ct, err := multipartBody(fields, img)
	if err != nil {
		return out, err
	}
	err = c.do(ctx, http.MethodPut, path, body, ct, &out)
	return out, err
}

func (c *Client) DeleteVacation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/vacations/"+strconv.FormatInt(id, 10), nil, "", nil)
}

func (c *Client) ListCountries(ctx context.Context) ([]model.Country, error) {
	var out []model.Country
	err := c.do(ctx, http.MethodGet, "/countries", nil, "", &out)
	return out, err
}

func (c *Client) UserLikes(ctx context.Context, userID int64) (model.Likes, error) {
	var out model.Likes
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/likes", userID), nil, "", &out)
	return out, err
}

func (c *Client) LikeVacation(ctx context.Context, userID, vacationID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/likes/%d", userID, vacationID), nil, "", nil)
}

func (c *Client) UnlikeVacation(ctx context.Context, userID, vacationID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d/likes/%d", userID, vacationID), nil, "", nil)
}

type formField struct{ name, value string }

func formatPrice(p float64) string { return strconv.FormatFloat(p, 'f', -1, 64) }

func multipartBody(fields []formField, img *model.ImageFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", f.name, err)
		}
	}
	part, err := w.CreateFormFile("image", img.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := io.Copy(part, img.Content); err != nil {
		return nil, "", fmt.Errorf("copy image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

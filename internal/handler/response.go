package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/repository"
)

// Response is the success envelope shared by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func ok(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data, Message: message})
}

func created(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apperrors.Validation(err.Error())
	}
	return nil
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid id")
	}
	return uint(id), nil
}

func queryPage(c echo.Context) repository.Page {
	number, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	return repository.Page{Number: number, Size: size}.Normalize()
}

// Ref is a JSON value that may be sent as a number or a string, used for
// product and status identifiers.
type Ref string

// UnmarshalJSON accepts 1, "1" or "Bottled water 19L".
func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = Ref(n.String())
	return nil
}

func (r *Ref) ptr() *string {
	if r == nil || *r == "" {
		return nil
	}
	s := string(*r)
	return &s
}

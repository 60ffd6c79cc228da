package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/reqscope/pkg/logger"
	"github.com/shashiranjanraj/reqscope/pkg/rejection"
	"github.com/shashiranjanraj/reqscope/pkg/response"
)

// DivisorHeader carries the denominator of a division.
const DivisorHeader = "div-by"

// Math is the reply of a successful division.
type Math struct {
	Op     string `json:"op"`
	Output uint16 `json:"output"`
}

type MathController struct{}

func NewMathController() *MathController {
	return &MathController{}
}

// Divide serves GET /math/{num}. A numerator that is not a uint16 does not
// match the route at all, so it is rejected as not found.
func (c *MathController) Divide(w http.ResponseWriter, r *http.Request) error {
	num, err := strconv.ParseUint(chi.URLParam(r, "num"), 10, 16)
	if err != nil {
		return rejection.ErrNotFound
	}

	denom, err := divisor(r.Header)
	if err != nil {
		return err
	}
	if denom == 0 {
		return rejection.ErrDivideByZero
	}

	out := Math{
		Op:     fmt.Sprintf("%d / %d", num, denom),
		Output: uint16(num) / denom,
	}
	logger.WithCtx(r.Context()).Debug("division", "op", out.Op, "output", out.Output)

	response.JSON(w, http.StatusOK, out)
	return nil
}

func divisor(h http.Header) (uint16, error) {
	values := h.Values(DivisorHeader)
	if len(values) == 0 {
		return 0, rejection.MissingHeader(DivisorHeader)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(values[0]), 10, 16)
	if err != nil {
		return 0, rejection.InvalidHeader(DivisorHeader, err)
	}
	return uint16(v), nil
}

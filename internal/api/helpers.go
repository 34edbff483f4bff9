package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/nitflow/internal/raster"
	"github.com/samcharles93/nitflow/pkg/nitf"
)

const headerFlowID = "X-Flow-Id"

func writeError(c *echo.Context, status int, errType, msg, flowID string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{
			Message: msg,
			Type:    errType,
			FlowID:  flowID,
		},
	})
}

// writeFailure maps an error from a flow or sampler onto a status code.
func writeFailure(c *echo.Context, err error, flowID string) error {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, raster.ErrOutOfBounds):
		return writeError(c, http.StatusBadRequest, "invalid_request_error", err.Error(), flowID)
	case errors.Is(err, ErrNotFound):
		return writeError(c, http.StatusNotFound, "not_found_error", err.Error(), flowID)
	case errors.Is(err, raster.ErrCompressed), errors.Is(err, raster.ErrBadLayout), errors.Is(err, nitf.ErrInvalidArgument):
		return writeError(c, http.StatusUnprocessableEntity, "unsupported_image_error", err.Error(), flowID)
	case errors.Is(err, nitf.ErrIOFailure):
		return writeError(c, http.StatusInternalServerError, "io_error", err.Error(), flowID)
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), flowID)
	}
}

func intParam(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, newInvalidRequest(fmt.Sprintf("%s is required", name))
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, newInvalidRequest(fmt.Sprintf("%s must be a non-negative integer", name))
	}
	return v, nil
}

func kindsParam(raw string) ([]nitf.SegmentKind, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nitf.Kinds, nil
	}
	var kinds []nitf.SegmentKind
	for part := range strings.SplitSeq(raw, ",") {
		k, err := nitf.ParseSegmentKind(part)
		if err != nil {
			return nil, newInvalidRequest(err.Error())
		}
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

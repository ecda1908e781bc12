package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nimasrn/record-shop/internal/services"
	xhttp "github.com/nimasrn/record-shop/pkg/http"
	"github.com/nimasrn/record-shop/pkg/logger"
)

const internalErrorMessage = "An unexpected error occurred."

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is required")
	}
	return json.Unmarshal(body, dst)
}

// pathID parses the {id} route parameter. On failure it has already written
// a 400 response.
func pathID(ctx *xhttp.RequestCtx) (int64, bool) {
	raw := fmt.Sprint(ctx.UserValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		xhttp.WriteMessage(ctx, xhttp.StatusBadRequest, fmt.Sprintf("Invalid id '%s'", raw))
		return 0, false
	}
	return id, true
}

func queryID(ctx *xhttp.RequestCtx, key string) (int64, bool) {
	id, err := strconv.ParseInt(string(ctx.QueryArgs().Peek(key)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pathString(ctx *xhttp.RequestCtx, key string) string {
	v, _ := ctx.UserValue(key).(string)
	return v
}

func writeBadJSON(ctx *xhttp.RequestCtx, err error) {
	xhttp.WriteMessage(ctx, xhttp.StatusBadRequest, "Invalid JSON: "+err.Error())
}

// writeError maps a service error onto its status code. Anything that is not
// a *services.Error is reported as a bare 500.
func writeError(ctx *xhttp.RequestCtx, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		logger.Error("unclassified service error", "path", string(ctx.Path()), "request_id", xhttp.RequestID(ctx), "error", err)
		xhttp.WriteMessage(ctx, xhttp.StatusInternalServerError, internalErrorMessage)
		return
	}
	xhttp.WriteMessage(ctx, statusOf(err), svcErr.Message)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return xhttp.StatusBadRequest
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrReference):
		return xhttp.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return xhttp.StatusConflict
	default:
		return xhttp.StatusInternalServerError
	}
}

package xhttp

import (
	"encoding/json"
)

const ContentTypeJSON = "application/json; charset=utf-8"

// MessageBody is the body of every error response and of delete confirmations.
type MessageBody struct {
	Message string `json:"message"`
}

func WriteJSON(ctx *RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		status = StatusInternalServerError
		b = []byte(`{"message":"` + StatusText(StatusInternalServerError) + `"}`)
	}
	ctx.Response.Header.Set("Content-Type", ContentTypeJSON)
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func WriteMessage(ctx *RequestCtx, status int, msg string) {
	WriteJSON(ctx, status, MessageBody{Message: msg})
}

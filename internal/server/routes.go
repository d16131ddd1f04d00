package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/plugfox/toxy-gram-server/api"
	errs "github.com/plugfox/toxy-gram-server/internal/err"
	"github.com/plugfox/toxy-gram-server/internal/model"
	"github.com/plugfox/toxy-gram-server/internal/storage"
)

// echo route for testing purposes
func echoRoute(w http.ResponseWriter, r *http.Request) {
	// Create a map to hold the request data
	var data map[string]any

	// Decode the request body into the data map
	if r.ContentLength != 0 {
		if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
			if err := render.Decode(r, &data); err != nil {
				api.NewResponse().SetError("bad_request", err.Error()).BadRequest(w)

				return
			}
		} else {
			msg := fmt.Sprintf("Content-Type: %s", r.Header.Get("Content-Type"))

			api.NewResponse().SetError("bad_request", "Content-Type must be application/json", msg).BadRequest(w)

			return
		}
	}

	api.NewResponse().SetData(struct {
		URL     string         `json:"url"`
		Remote  string         `json:"remote"`
		Method  string         `json:"method"`
		Headers http.Header    `json:"headers"`
		Body    map[string]any `json:"body"`
	}{
		URL:     r.URL.String(),
		Remote:  r.RemoteAddr,
		Method:  r.Method,
		Headers: r.Header,
		Body:    data,
	}).Ok(w)
}

// List all moderation records, worst offenders first.
func listModerationRecordsRoute(st *storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		records, err := st.ModerationRecords()
		if err != nil {
			api.NewResponse().SetError("storage_error", err.Error()).InternalServerError(w)

			return
		}

		api.NewResponse().SetData(records).Ok(w)
	}
}

// Get a single user's moderation record.
func getModerationRecordRoute(st *storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		record, err := st.ModerationRecordByID(id)
		if err != nil {
			if errors.Is(err, errs.ErrorNotFound) {
				api.NewResponse().SetError("not_found", "No moderation record for this user").NotFound(w)

				return
			}

			api.NewResponse().SetError("storage_error", err.Error()).InternalServerError(w)

			return
		}

		api.NewResponse().SetData(record).Ok(w)
	}
}

// Lift a user's block early, the toxic count stays.
func liftBlockRoute(st *storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		if err := st.LiftBlock(id); err != nil {
			if errors.Is(err, errs.ErrorNotFound) {
				api.NewResponse().SetError("not_found", "No moderation record for this user").NotFound(w)

				return
			}

			api.NewResponse().SetError("storage_error", err.Error()).InternalServerError(w)

			return
		}

		api.NewResponse().SetData(map[string]string{"user_id": id.ToString()}).Ok(w)
	}
}

func userIDParam(w http.ResponseWriter, r *http.Request) (model.UserID, bool) {
	raw := chi.URLParam(r, "userID")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		api.NewResponse().SetError("bad_request", "userID must be an integer").BadRequest(w)

		return 0, false
	}

	return model.UserID(id), true
}

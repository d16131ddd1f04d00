package api

import (
	"encoding/json"
	"net/http"
)

// Error is a generic error structure that is used to send error responses to the client.
type Error struct {
	Code    string      `json:"code,required"`
	Message string      `json:"message,required"`
	Data    interface{} `json:"data,omitempty"`
}

// Response is a generic response structure that is used to send responses to the client.
type Response struct {
	Status string      `json:"status,required"`
	Data   interface{} `json:"data,omitempty"`
	Error  *Error      `json:"error,omitempty"`
}

// NewResponse creates a new empty response.
func NewResponse() *Response {
	return &Response{}
}

// Error message
func (e *Error) Error() string {
	return e.Message
}

// Set data to response
func (rsp *Response) SetData(data interface{}) *Response {
	rsp.Data = data
	rsp.Error = nil

	return rsp
}

// Set error to response
func (rsp *Response) SetError(code string, message string, data ...interface{}) *Response {
	rsp.Data = nil
	rsp.Error = &Error{
		Code:    code,
		Message: message,
	}

	if len(data) == 1 {
		rsp.Error.Data = data[0]
	} else if len(data) > 1 {
		rsp.Error.Data = data
	}

	return rsp
}

// Send success response to client
func (rsp *Response) Ok(w http.ResponseWriter) {
	rsp.Status = "ok"
	rsp.write(w, http.StatusOK)
}

// Send error response to client
func (rsp *Response) BadRequest(w http.ResponseWriter) {
	rsp.writeError(w, http.StatusBadRequest, "bad_request", "Bad request")
}

// Send error response to client
func (rsp *Response) InternalServerError(w http.ResponseWriter) {
	rsp.writeError(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
}

// Send error response to client
func (rsp *Response) NotFound(w http.ResponseWriter) {
	rsp.writeError(w, http.StatusNotFound, "not_found", "Not found")
}

// Send error response to client
func (rsp *Response) Unauthorized(w http.ResponseWriter) {
	rsp.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
}

// Send error response to client
func (rsp *Response) Forbidden(w http.ResponseWriter) {
	rsp.writeError(w, http.StatusForbidden, "forbidden", "Forbidden")
}

// Send error response to client
func (rsp *Response) MethodNotAllowed(w http.ResponseWriter) {
	rsp.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
}

func (rsp *Response) writeError(w http.ResponseWriter, status int, code, message string) {
	rsp.Status = "error"
	if rsp.Error == nil {
		rsp.Error = &Error{
			Code:    code,
			Message: message,
		}
	}

	rsp.write(w, status)
}

func (rsp *Response) write(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rsp)
}

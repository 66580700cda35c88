package rest

// ResponseError is the wire shape for handler-level failures.
type ResponseError struct {
	Message string `json:"message"`
}

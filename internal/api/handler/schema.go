package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Site     string `json:"site"`
	Password string `json:"password"`
}

type authenticateRequest struct {
	Email    string `json:"email"`
	Site     string `json:"site"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type authenticateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// --- Reviews ---

type submitReviewRequest struct {
	Name   string `json:"name"   validate:"required"`
	Email  string `json:"email"  validate:"required"`
	Review string `json:"review" validate:"required"`
	Site   string `json:"site"   validate:"required"`
}

// reviewResponse is owned by the transport layer so the JSON contract the
// widget depends on does not move with domain changes.
type reviewResponse struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Review    string `json:"review"`
	Site      string `json:"site"`
	Timestamp string `json:"timestamp"`
}

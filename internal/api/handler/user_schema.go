package handler

// --- Requests ---

type registerRequest struct {
	UserName string `json:"user_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,min=5,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updateUserRequest is a partial update; omitted fields stay unchanged.
type updateUserRequest struct {
	UserName string `json:"user_name" validate:"omitempty,min=2"`
	Email    string `json:"email" validate:"omitempty,min=5,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// --- Responses ---

// publicUser is the only user shape that leaves the API.
type publicUser struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

// principalResponse is the caller's own identity, role included.
type principalResponse struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    principalResponse `json:"user"`
}

// envelope wraps the result of a write.
type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

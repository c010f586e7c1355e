package dto

type RegisterRequestDto struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequestDto struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SetRoleRequestDto struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type UserDto struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type RegisterResponseDto struct {
	Message string  `json:"message"`
	User    UserDto `json:"user"`
}

type LoginResponseDto struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type SetRoleResponseDto struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    UserDto `json:"user"`
}

type VerifyTokenResponseDto struct {
	Valid bool     `json:"valid"`
	User  *UserDto `json:"user,omitempty"`
}

package dto

// ErrorResponse corpo de erro HTTP.
type ErrorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail campo rejeitado pela validação do corpo.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MessageResponse resposta simples de confirmação.
type MessageResponse struct {
	Message string `json:"message"`
}

package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse cuerpo de éxito con el mensaje mostrado al usuario.
type MessageResponse struct {
	Message string `json:"message"`
}

// SearchRequest texto de búsqueda sobre la caché de la vista.
type SearchRequest struct {
	Query string `json:"query"`
}

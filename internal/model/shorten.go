package model

// ShortenRequest представляет тело запроса к бэкенду на сокращение URL.
type ShortenRequest struct {
	OriginalURL string `json:"original_url"`
}

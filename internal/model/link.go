package model

import "strings"

// Link описывает запись, которую бэкенд возвращает на сокращение и на поиск по коду.
type Link struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	Visits      int    `json:"visits"`
}

// ShortURL собирает короткую ссылку из базового адреса и кода.
func (l *Link) ShortURL(base string) string {
	return strings.TrimRight(base, "/") + "/" + l.ShortCode
}

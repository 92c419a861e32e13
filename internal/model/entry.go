package model

// Entry представляет строку файла с сохранёнными настройками темы
type Entry struct {
	SessionID string `json:"session_id"`
	Theme     Theme  `json:"theme"`
}

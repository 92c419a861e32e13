package handlers

import (
	"strconv"

	"github.com/Totarae/URLShortenerWeb/internal/model"
	"github.com/Totarae/URLShortenerWeb/internal/session"
)

// TabView описывает кнопку переключателя вкладок.
type TabView struct {
	Mode   model.Mode
	Label  string
	Active bool
}

// FormView описывает форму активной вкладки.
type FormView struct {
	Mode         model.Mode
	Action       string
	FieldName    string
	InputType    string
	Label        string
	Placeholder  string
	Value        string
	ButtonLabel  string
	LoadingLabel string
	Loading      bool
}

// ResultView описывает блок результата.
type ResultView struct {
	Mode     model.Mode
	Heading  string
	Display  string
	CopyText string
	// OpenURL ведёт через /open в режиме shorten
	// и увеличивает счётчик на странице.
	OpenURL    string
	ShowVisits bool
	Visits     int
	// Approximate: в Visits учтены переходы, о которых бэкенд не сообщал.
	Approximate bool
}

// PageView содержит всё, что нужно шаблону страницы.
type PageView struct {
	Theme  model.Theme
	Tabs   []TabView
	Error  string
	Form   FormView
	Result *ResultView
}

// BuildPage собирает модель страницы из состояния сессии.
func BuildPage(snap session.Snapshot, theme model.Theme, shortBaseURL string) PageView {
	page := PageView{
		Theme: theme,
		Tabs: []TabView{
			{Mode: model.ModeShorten, Label: "Shorten URL", Active: snap.Tab == model.ModeShorten},
			{Mode: model.ModeRetrieve, Label: "Retrieve URL", Active: snap.Tab == model.ModeRetrieve},
		},
		Error: snap.Error,
		Form:  buildForm(snap),
	}

	// ошибка и результат одновременно не показываются
	if page.Error != "" {
		return page
	}

	switch snap.Tab {
	case model.ModeShorten:
		if snap.Shortened != nil {
			short := snap.Shortened.ShortURL(shortBaseURL)
			page.Result = &ResultView{
				Mode:        model.ModeShorten,
				Heading:     "Shortened URL",
				Display:     short,
				CopyText:    short,
				OpenURL:     "/open/" + snap.Shortened.ShortCode,
				ShowVisits:  true,
				Visits:      snap.Shortened.Visits + snap.OptimisticVisits,
				Approximate: snap.OptimisticVisits > 0,
			}
		}
	case model.ModeRetrieve:
		if snap.Retrieved != nil {
			page.Result = &ResultView{
				Mode:     model.ModeRetrieve,
				Heading:  "Original URL",
				Display:  snap.Retrieved.OriginalURL,
				CopyText: snap.Retrieved.OriginalURL,
				OpenURL:  snap.Retrieved.OriginalURL,
			}
		}
	}
	return page
}

func buildForm(snap session.Snapshot) FormView {
	if snap.Tab == model.ModeRetrieve {
		return FormView{
			Mode:         model.ModeRetrieve,
			Action:       "/retrieve",
			FieldName:    "code",
			InputType:    "text",
			Label:        "Enter short code or URL",
			Placeholder:  "abc123 or http://shorturl.com/abc123",
			Value:        snap.CodeInput,
			ButtonLabel:  "Retrieve Original URL",
			LoadingLabel: "Retrieving...",
			Loading:      snap.Loading,
		}
	}
	return FormView{
		Mode:         model.ModeShorten,
		Action:       "/shorten",
		FieldName:    "url",
		InputType:    "url",
		Label:        "Enter URL to shorten",
		Placeholder:  "https://example/of/a/very/very/long/url.com",
		Value:        snap.URLInput,
		ButtonLabel:  "Shorten URL",
		LoadingLabel: "Shortening...",
		Loading:      snap.Loading,
	}
}

// CurrentLabel возвращает подпись кнопки с учётом загрузки.
func (f FormView) CurrentLabel() string {
	if f.Loading {
		return f.LoadingLabel
	}
	return f.ButtonLabel
}

// VisitsText форматирует счётчик переходов.
func (r ResultView) VisitsText() string {
	return "Visits: " + strconv.Itoa(r.Visits)
}

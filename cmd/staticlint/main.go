// Package main запускает multichecker для веб-интерфейса сокращателя.
//
// Он включает:
//   - стандартные анализаторы go/analysis/passes, в том числе httpresponse
//     и lostcancel для кода HTTP-клиента
//   - все SA-анализаторы staticcheck
//   - S1000 из simple и U1000 из unused
//   - bodyclose: тело каждого ответа бэкенда должно закрываться
//   - собственный анализатор noexit (запрещает os.Exit и log.Fatal в main)
//
// Запуск:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"strings"

	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/unused"

	"github.com/Totarae/URLShortenerWeb/cmd/staticlint/noexit"
)

// simpleChecks перечисляет выбранные проверки из набора simple
var simpleChecks = map[string]bool{
	"S1000": true, // select с одним case
}

func main() {
	multichecker.Main(analyzers()...)
}

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		errorsas.Analyzer,
		httpresponse.Analyzer,
		lostcancel.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
	}

	for _, a := range staticcheck.Analyzers {
		if strings.HasPrefix(a.Analyzer.Name, "SA") {
			list = append(list, a.Analyzer)
		}
	}
	for _, a := range simple.Analyzers {
		if simpleChecks[a.Analyzer.Name] {
			list = append(list, a.Analyzer)
		}
	}

	return append(list, unused.Analyzer.Analyzer, bodyclose.Analyzer, noexit.Analyzer)
}

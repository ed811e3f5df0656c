package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

func grouped(n int) string {
	return ptBR.Sprintf("%d", n)
}

func km(n int) string {
	return grouped(n) + " km"
}

func kmh(n int) string {
	return fmt.Sprintf("%d km/h", n)
}

func liters(n int) string {
	return grouped(n) + " L"
}

func pct(n int) string {
	return grouped(n) + "%"
}

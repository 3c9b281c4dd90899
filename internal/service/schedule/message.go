package schedule

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/smartodonto/clinic-api/internal/model"
)

const (
	// DefaultCountryCode is prefixed to phones that are not in international form.
	DefaultCountryCode = "55"

	confirmationBaseURL = "https://wa.me/"
)

// FormatHour renders an hour as HH:00 for message bodies.
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// HourLabel renders an hour as H:00 for schedule rows.
func HourLabel(hour int) string {
	return fmt.Sprintf("%d:00", hour)
}

// RenderConfirmationMessage fills the confirmation template. A nil or blank
// template falls back to the fixed default sentence.
func RenderConfirmationMessage(patientName string, date model.Date, hour int, tpl *model.MessageTemplate) string {
	formattedDate := date.Display()
	formattedHour := FormatHour(hour)

	if tpl == nil || strings.TrimSpace(tpl.Text) == "" {
		return fmt.Sprintf("Olá %s. Tudo bem? Podemos confirmar sua consulta para o dia %s às %s?",
			patientName, formattedDate, formattedHour)
	}

	r := strings.NewReplacer(
		"{paciente_nome}", patientName,
		"{data_formatada}", formattedDate,
		"{horario_formatado}", formattedHour,
		// placeholders of the first template generation
		"{nome}", patientName,
		"{data}", formattedDate,
		"{hora}", formattedHour,
	)
	return r.Replace(tpl.Text)
}

// BuildConfirmationLink builds the WhatsApp deep-link using the default
// country code.
func BuildConfirmationLink(phone, message string) string {
	return buildConfirmationLink(DefaultCountryCode, phone, message)
}

func buildConfirmationLink(countryCode, phone, message string) string {
	digits := digitsOnly(phone)
	if !strings.HasPrefix(strings.TrimSpace(phone), "+") {
		digits = countryCode + digits
	}
	return confirmationBaseURL + digits + "?text=" + encodeMessage(message)
}

// encodeMessage percent-encodes the whole message. Spaces become %20 rather
// than '+', which wa.me would show literally.
func encodeMessage(message string) string {
	return strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

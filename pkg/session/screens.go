package session

import (
	"github.com/goliatone/go-payform/pkg/invoice"
	"github.com/goliatone/go-payform/pkg/model"
	"github.com/goliatone/go-payform/pkg/presentation"
)

// ChannelOptions lists the notification channel choices, placeholder first.
func ChannelOptions() []model.Option {
	return []model.Option{
		{Label: "Seleccionar", Value: string(model.ChannelUnset)},
		{Label: "Email", Value: string(model.ChannelEmail)},
		{Label: "SMS", Value: string(model.ChannelSMS)},
		{Label: "PUSH", Value: string(model.ChannelPush)},
		{Label: "WhatsApp", Value: string(model.ChannelWhatsApp)},
	}
}

var yesNo = []model.Option{
	{Label: "Sí", Value: "true"},
	{Label: "No", Value: "false"},
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (s *Session) build() *presentation.Element {
	switch s.screen {
	case ScreenSummary:
		return s.summaryScreen()
	case ScreenNotification:
		return s.notificationScreen()
	case ScreenReport:
		return s.reportScreen()
	default:
		return s.entryScreen()
	}
}

func (s *Session) entryScreen() *presentation.Element {
	f := s.factory
	paying := s.isPending(CallPay)

	children := []*presentation.Element{
		f.Label("Realizar Pago", &presentation.LabelStyle{Role: presentation.LabelTitle}),
		f.Label("Método de Pago", nil),
		f.ChoiceField(MethodOptions(), s.entry.Method, s.setMethod),
		f.Label("Monto", nil),
		f.TextField("Ingrese el monto", s.entry.Amount, s.setAmount),
		f.Button(presentation.Content{Text: "Pagar", Icon: "credit-card"}, s.pay, !s.entry.Valid() || paying),
	}
	if paying {
		children = append(children,
			f.Label("Procesando pago...", &presentation.LabelStyle{Role: presentation.LabelMuted}),
			f.Button(presentation.Text("Cancelar"), s.cancelPay, false),
		)
	}
	return f.Container(children...)
}

func (s *Session) summaryScreen() *presentation.Element {
	f := s.factory
	children := []*presentation.Element{
		f.Label("Factura de Pago", &presentation.LabelStyle{Role: presentation.LabelTitle}),
	}
	for _, line := range s.invoice.Lines() {
		var style *presentation.LineStyle
		if line.Emphasized {
			style = &presentation.LineStyle{Emphasized: true}
		}
		children = append(children, f.LabeledLine(line.Label, line.Value, style))
	}
	children = append(children,
		f.Label("Tipo de Notificación a Enviar", &presentation.LabelStyle{Role: presentation.LabelHeading}),
		f.ChoiceField(ChannelOptions(), string(s.channel), s.setChannel),
		f.Container(
			f.Button(presentation.Content{Text: "Realizar otro pago", Icon: "rotate-left"}, s.newPayment, false),
			f.Button(presentation.Content{Text: "Enviar notificación", Icon: "paper-plane"}, s.openNotification, !s.channel.Selected()),
			f.Button(presentation.Content{Text: "Generar reporte PDF", Icon: "file-pdf"}, s.openReport, false),
		),
		f.DownloadTrigger(s.downloadSummary),
	)
	return f.Container(children...)
}

func (s *Session) notificationScreen() *presentation.Element {
	f := s.factory
	sending := s.isPending(CallNotification)

	children := []*presentation.Element{
		f.Label("Formulario de "+string(s.channel), &presentation.LabelStyle{Role: presentation.LabelHeading}),
	}
	children = append(children, s.engine.Render(f, s.channel, s.formState, s.changeField)...)
	if sending {
		children = append(children, f.Label("Enviando...", &presentation.LabelStyle{Role: presentation.LabelMuted}))
	}
	children = append(children, f.Container(
		f.Button(presentation.Text("Cancelar"), s.cancelNotification, false),
		f.Button(presentation.Content{Text: "Enviar", Icon: "paper-plane"}, s.submitNotification, sending),
	))
	return f.Container(children...)
}

func (s *Session) reportScreen() *presentation.Element {
	f := s.factory
	generating := s.isPending(CallReport)
	cfg := &s.report

	toggle := func(label string, target *bool) []*presentation.Element {
		return []*presentation.Element{
			f.Label(label, nil),
			f.ChoiceField(yesNo, boolValue(*target), func(raw string) { s.setReportBool(target, raw) }),
		}
	}

	children := []*presentation.Element{
		f.Label("Configuración del Reporte PDF", &presentation.LabelStyle{Role: presentation.LabelHeading}),
	}
	children = append(children, toggle("Incluir Logo", &cfg.IncludeLogo)...)
	children = append(children,
		f.Label("Título:", nil),
		f.TextField("Título del reporte", cfg.Title, func(v string) { cfg.Title = v }),
	)
	children = append(children, toggle("Incluir Detalles de Pago", &cfg.IncludePaymentDetails)...)
	children = append(children, toggle("Incluir Info Usuario", &cfg.IncludeUserInfo)...)
	children = append(children,
		f.Label("Tema:", nil),
		f.ChoiceField([]model.Option{
			{Label: "Claro", Value: invoice.ThemeLight},
			{Label: "Oscuro", Value: invoice.ThemeDark},
		}, cfg.Theme, func(v string) { cfg.Theme = v }),
	)
	children = append(children, toggle("Incluir Fecha/Hora", &cfg.IncludeTimestamp)...)
	children = append(children,
		f.Label("Mensaje Pie de Página:", nil),
		f.TextField("Mensaje al pie", cfg.FooterMessage, func(v string) { cfg.FooterMessage = v }),
		f.Label("Formato:", nil),
		f.ChoiceField([]model.Option{
			{Label: "A4", Value: invoice.FormatA4},
			{Label: "Carta", Value: invoice.FormatLetter},
			{Label: "Oficio", Value: invoice.FormatLegal},
		}, cfg.Format, func(v string) { cfg.Format = v }),
	)
	if generating {
		children = append(children, f.Label("Generando PDF...", &presentation.LabelStyle{Role: presentation.LabelMuted}))
	}
	children = append(children, f.Container(
		f.Button(presentation.Text("Cancelar"), s.closeReport, false),
		f.Button(presentation.Content{Text: "Generar PDF", Icon: "file-pdf"}, s.generateReport, generating),
	))
	return f.Container(children...)
}

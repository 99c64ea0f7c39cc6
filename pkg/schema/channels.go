package schema

import "github.com/goliatone/go-payform/pkg/model"

// ScheduleTimeLayout is the representation of the SMS scheduleTime field: the
// HTML datetime-local literal with the "T" separator preserved.
const ScheduleTimeLayout = "2006-01-02T15:04"

var builtins = map[model.Channel][]model.FieldDescriptor{
	model.ChannelEmail: {
		{Key: "to", Kind: model.FieldKindText, Label: "Para (To)", Placeholder: "Correo del destinatario"},
		{Key: "subject", Kind: model.FieldKindText, Label: "Asunto", Placeholder: "Asunto del correo"},
		{Key: "body", Kind: model.FieldKindText, Label: "Contenido", Placeholder: "Cuerpo del mensaje"},
		{Key: "cc", Kind: model.FieldKindList, Label: "CC (separado por comas)", Placeholder: "Correos CC"},
		{Key: "bcc", Kind: model.FieldKindList, Label: "BCC (separado por comas)", Placeholder: "Correos BCC"},
		{Key: "attachments", Kind: model.FieldKindList, Label: "Adjuntos (URLs separadas por coma)", Placeholder: "URLs de archivos"},
		{Key: "priority", Kind: model.FieldKindChoice, Label: "Prioridad", Choices: []model.Option{
			{Label: "Alta", Value: "alta"},
			{Label: "Media", Value: "media"},
			{Label: "Baja", Value: "baja"},
		}},
	},
	model.ChannelSMS: {
		{Key: "phoneNumber", Kind: model.FieldKindText, Label: "Número", Placeholder: "Número de teléfono"},
		{Key: "message", Kind: model.FieldKindText, Label: "Mensaje", Placeholder: "Contenido del SMS"},
		{Key: "senderId", Kind: model.FieldKindText, Label: "Remitente (opcional)", Placeholder: "ID del remitente"},
		{Key: "deliveryReportRequired", Kind: model.FieldKindBoolean, Label: "¿Requiere reporte de entrega?", Choices: []model.Option{
			{Label: "Sí", Value: "true"},
			{Label: "No", Value: "false"},
		}},
		{Key: "scheduleTime", Kind: model.FieldKindDateTime, Label: "Fecha Programada", Placeholder: "AAAA-MM-DDTHH:mm"},
	},
	model.ChannelPush: {
		{Key: "deviceToken", Kind: model.FieldKindText, Label: "Token de Dispositivo", Placeholder: "Token único"},
		{Key: "title", Kind: model.FieldKindText, Label: "Título", Placeholder: "Encabezado del mensaje"},
		{Key: "message", Kind: model.FieldKindText, Label: "Mensaje", Placeholder: "Texto de la notificación"},
		{Key: "imageUrl", Kind: model.FieldKindText, Label: "URL de Imagen (opcional)", Placeholder: "https://imagen.jpg"},
		{Key: "clickAction", Kind: model.FieldKindText, Label: "Click Action", Placeholder: "Acción al hacer clic"},
		{Key: "priority", Kind: model.FieldKindChoice, Label: "Prioridad", Choices: []model.Option{
			{Label: "Urgente", Value: "urgente"},
			{Label: "Normal", Value: "normal"},
		}},
	},
	model.ChannelWhatsApp: {
		{Key: "phoneNumber", Kind: model.FieldKindText, Label: "Número", Placeholder: "Número del destinatario"},
		{Key: "message", Kind: model.FieldKindText, Label: "Mensaje", Placeholder: "Texto del mensaje"},
		{Key: "mediaUrl", Kind: model.FieldKindText, Label: "URL de Media", Placeholder: "https://archivo.jpg"},
		{Key: "caption", Kind: model.FieldKindText, Label: "Caption", Placeholder: "Texto adicional"},
		{Key: "interactiveButtons", Kind: model.FieldKindList, Label: "Botones (separados por coma)", Placeholder: "Botón1,Botón2"},
		{Key: "language", Kind: model.FieldKindText, Label: "Idioma", Placeholder: "es, en, etc."},
	},
}

// For returns the built-in descriptors for channel, in display order. Unknown
// channels yield an empty slice.
func For(channel model.Channel) []model.FieldDescriptor {
	return model.CloneDescriptors(builtins[channel])
}

// Keys returns the ordered field keys of a descriptor list.
func Keys(descriptors []model.FieldDescriptor) []string {
	keys := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		keys = append(keys, d.Key)
	}
	return keys
}

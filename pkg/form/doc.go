// Package form turns channel schemas into editable state. It applies raw
// control input to a State according to each field's kind, renders the
// fields through a presentation.Factory and unwraps State into submission
// payloads.
package form

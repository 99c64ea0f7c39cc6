// Package presentation defines the factory contract every screen builds its
// view through. A Factory produces Element trees; variants differ only in the
// style tokens they attach, never in text, values, options or callbacks.
package presentation

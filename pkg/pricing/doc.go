// Package pricing computes the tax and surcharge applied to a payment
// according to its method. Arithmetic is decimal so results are exact.
package pricing

// Package backend is the HTTP client for the payment backend: charging a
// payment, sending a follow-up notification and rendering a PDF report.
package backend

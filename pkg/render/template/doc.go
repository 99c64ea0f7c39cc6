// Package template defines the template engine seam renderers depend on, so
// the HTML renderer can run on any engine with this contract.
package template

// Package types defines the note record, the linked-line cell model, the
// request/response envelope, the Store, Workbook and Sheet interfaces that the
// note logic consumes, and the standard errors shared by every layer.
package types

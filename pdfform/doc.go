// Package pdfform reads, fills and writes PDF documents that carry an
// interactive form (AcroForm). It is a small adapter over pdfcpu that works
// in terms of field names and string values:
//
//   - Parse validates a document and reads its form through pdfcpu's form
//     export, failing with ErrNotPDF, ErrMalformed, ErrEncrypted or
//     ErrNoAcroForm.
//   - Document.Fields reports every field by fully qualified name with its
//     type and current value.
//   - Document.Fill returns a new Document with the requested values
//     applied. The receiver is never modified, so a parsed template can be
//     filled any number of times from any number of goroutines.
//   - Document.Bytes returns the serialized file.
//   - Builder lays out a fresh fillable document through pdfcpu's create
//     command.
//
// pdfcpu panics on some corrupt inputs; every call into it is guarded and a
// panic surfaces as ErrMalformed.
//
// The package disables pdfcpu's on-disk configuration directory when it is
// loaded.
package pdfform

// Package dialect guesses the block family of a document from its text:
// keyword-terminated (`def ... end`, `do ... end`) or brace-delimited.
//
// It is used only when the file name says nothing, e.g. stdin or a script
// without an extension. The guess never fails; weak evidence yields Unknown.
package dialect

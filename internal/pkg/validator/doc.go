// Package validator provides a small validation abstraction for request,
// message and configuration structs.
//
// Callers depend on the Validator interface; the go-playground/validator v10
// implementation lives in this package and reports failures as a field to
// message map keyed by snake_case field names.
package validator

// Package utils provides input validation and text helpers shared across the
// shell service.
//
// Validation uses go-playground/validator struct tags for descriptor schemas
// and small hand checks for ids and paths received over HTTP. Every failure
// wraps ErrInvalid so handlers can map it to 400.
//
// Example Usage:
//
//	if err := utils.ValidateStruct(spec); err != nil {
//	    return err
//	}
//	title := utils.PlainText(item.Meta.Title)
package utils

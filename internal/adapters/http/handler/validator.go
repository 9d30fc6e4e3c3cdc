package handler

import "github.com/go-playground/validator"

// CustomValidator は echo.Validator を go-playground/validator で実装します。
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator は CustomValidator を生成します。
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate は構造体タグに従ってリクエストを検証します。
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

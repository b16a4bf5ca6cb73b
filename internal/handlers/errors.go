package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sosnovich/skyward/internal/dto"
	"github.com/sosnovich/skyward/internal/services"
)

// serviceError maps a domain error onto its HTTP status. Anything outside
// the domain taxonomy is an unanticipated failure and is reported as 417
// with the raw message, matching the system's long-standing behavior.
func serviceError(c *fiber.Ctx, err error) error {
	var conflict *services.ConcurrencyError
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrEmailInUse), errors.Is(err, services.ErrProjectExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: conflict.Error(),
		})
	default:
		return c.Status(fiber.StatusExpectationFailed).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
}

// malformedBody reports a request body that could not be parsed, with the
// line and column of the failure when the decoder exposes an offset.
func malformedBody(c *fiber.Ctx, err error) error {
	resp := dto.ParseErrorResponse{Message: err.Error()}

	var offset int64 = -1
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) {
		offset = syntaxErr.Offset
	} else if errors.As(err, &typeErr) {
		offset = typeErr.Offset
	}
	if offset >= 0 {
		resp.Line, resp.Column = positionOf(c.Body(), offset)
	}

	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

func positionOf(body []byte, offset int64) (line, column int) {
	if offset > int64(len(body)) {
		offset = int64(len(body))
	}
	prefix := body[:offset]
	line = bytes.Count(prefix, []byte{'\n'}) + 1
	if idx := bytes.LastIndexByte(prefix, '\n'); idx >= 0 {
		column = int(offset) - idx
	} else {
		column = int(offset) + 1
	}
	return line, column
}

// validationFailure turns ozzo field errors into the structured 400 payload,
// including the rejected value read back from the request struct.
func validationFailure(c *fiber.Ctx, err error, req interface{}) error {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	names := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]dto.FieldError, 0, len(names))
	for _, name := range names {
		fields = append(fields, dto.FieldError{
			Field:         name,
			Message:       fieldErrs[name].Error(),
			RejectedValue: fieldValue(req, name),
		})
	}

	return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
		Error:   true,
		Message: "validation failed",
		Fields:  fields,
	})
}

// fieldValue looks up a struct field by its json tag name.
func fieldValue(req interface{}, jsonName string) interface{} {
	v := reflect.ValueOf(req)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if name, _, _ := strings.Cut(tag, ","); name == jsonName {
			fv := v.Field(i)
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					return nil
				}
				fv = fv.Elem()
			}
			return fv.Interface()
		}
	}
	return nil
}

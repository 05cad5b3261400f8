package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

var (
	validate = newValidator()

	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()

	// В ошибках используем имена полей из json-тегов
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Метка слота из сетки, например "11-12"
	_ = v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		_, ok := domain.SlotByLabel(fl.Field().String())
		return ok
	})
	// Дата в формате YYYY-MM-DD
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		return dateRe.MatchString(fl.Field().String())
	})

	return v
}

// ValidateStruct проверяет структуру по тегам validate
// Возвращает nil или ошибки по полям (имя поля -> сообщение)
func ValidateStruct(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"body": err.Error()}
	}

	result := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		result[fe.Field()] = fieldMessage(fe)
	}
	return result
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный e-mail"
	case "max":
		return fmt.Sprintf("максимальная длина %s", fe.Param())
	case "gt":
		return fmt.Sprintf("должно быть больше %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "slot":
		return "неизвестный временной слот"
	case "date":
		return "ожидается дата YYYY-MM-DD"
	default:
		return "некорректное значение"
	}
}

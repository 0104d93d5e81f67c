package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

var registerOnce sync.Once

// RegisterValidators adds the domain binding tags to gin's validator. Safe to
// call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("authority", func(fl validator.FieldLevel) bool {
			return models.Authority(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("transactiontype", func(fl validator.FieldLevel) bool {
			return models.TransactionType(fl.Field().String()).Valid()
		})
	})
}

package dto

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/payment"
	"github.com/xiebiao/library/internal/domain/user"
)

var (
	userIDPattern    = regexp.MustCompile(`^U\d+$`)
	bookIDPattern    = regexp.MustCompile(`^B\d+$`)
	paymentIDPattern = regexp.MustCompile(`^P\d+$`)
)

// RegisterValidators 向gin的validator注册自定义tag
// userid/bookid/paymentid 校验ID前缀，category/role/payment_status 校验封闭取值
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// 错误信息中使用json/form字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(key), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	rules := map[string]validator.Func{
		"userid":    matches(userIDPattern),
		"bookid":    matches(bookIDPattern),
		"paymentid": matches(paymentIDPattern),
		"category": func(fl validator.FieldLevel) bool {
			return book.IsValidCategory(fl.Field().String())
		},
		"role": func(fl validator.FieldLevel) bool {
			_, err := user.ParseRole(fl.Field().String())
			return err == nil
		},
		"payment_status": func(fl validator.FieldLevel) bool {
			_, err := payment.ParseStatus(fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func matches(p *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return p.MatchString(fl.Field().String())
	}
}

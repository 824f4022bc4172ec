package utils

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"      // Gin 框架的数据绑定包
	"github.com/go-playground/validator/v10" // 数据校验库

	"github.com/qycnet/account_hub/models/enums"
)

// phoneNumberRegex 预编译的中国大陆手机号正则表达式，用于提升校验性能。
// 规则：以1开头，第二位是3到9之间的数字，后面跟9个数字。
var phoneNumberRegex = regexp.MustCompile(`^1[3-9]\d{9}$`)

// ValidateChinesePhone 校验是否为中国大陆手机号。
// fl: validator.FieldLevel 包含了当前校验字段的级别信息和值。
func ValidateChinesePhone(fl validator.FieldLevel) bool {
	phoneNumber := fl.Field().String()
	return phoneNumberRegex.MatchString(phoneNumber)
}

// ValidLoginType 校验登录方式枚举值是否为已定义的值。
func ValidLoginType(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(enums.LoginType)
	if !ok {
		return false
	}
	return val.Valid()
}

// RegisterCustomValidators 将所有自定义的校验函数注册到 Gin 的 validator 引擎中。
// 这样就可以在 DTO 的 struct tag 中使用这些自定义的校验标签了。
// 例如: `binding:"ChinesePhone"`
func RegisterCustomValidators() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validations := map[string]validator.Func{
			"ChinesePhone": ValidateChinesePhone, // 手机号校验
			"LoginType":    ValidLoginType,       // 登录方式枚举校验
		}

		for tag, validation := range validations {
			if err := v.RegisterValidation(tag, validation); err != nil {
				return fmt.Errorf("注册验证器 '%s' 失败: %w", tag, err)
			}
		}
	}
	return nil
}

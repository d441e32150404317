package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTrans "github.com/go-playground/validator/v10/translations/en"
	zhTrans "github.com/go-playground/validator/v10/translations/zh"

	"github.com/kochabonline/mcstatus/address"
	"github.com/kochabonline/mcstatus/log"
)

// TagServerAddress validates a host[:port] game-server address.
const TagServerAddress = "server_address"

var (
	Validate *validator.Validate
	TransEn  ut.Translator
	TransZh  ut.Translator
)

func init() {
	initValidator()
}

// initValidator initializes the validator and translator.
func initValidator() {
	Validate = validator.New()

	enTranslator := en.New()
	zhTranslator := zh.New()

	uni := ut.New(enTranslator, enTranslator, zhTranslator)

	TransEn, _ = uni.GetTranslator("en")
	TransZh, _ = uni.GetTranslator("zh")

	if err := enTrans.RegisterDefaultTranslations(Validate, TransEn); err != nil {
		log.Errorf("validator registration translator error: %v", err)
	}

	if err := zhTrans.RegisterDefaultTranslations(Validate, TransZh); err != nil {
		log.Errorf("validator registration translator error: %v", err)
	}

	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("uri"), ",", 2)[0]
		}
		if name == "-" {
			name = ""
		}
		if label := fld.Tag.Get("label"); label != "" {
			name = label
		}

		return name
	})

	registerServerAddress()
}

func registerServerAddress() {
	if err := Validate.RegisterValidation(TagServerAddress, serverAddress); err != nil {
		log.Errorf("register %s validation error: %v", TagServerAddress, err)
		return
	}

	translations := []struct {
		trans ut.Translator
		text  string
	}{
		{TransEn, "{0} must be a server address like hypixel.net or 192.168.1.1:25565"},
		{TransZh, "{0}必须是有效的服务器地址，例如 hypixel.net 或 192.168.1.1:25565"},
	}
	for _, t := range translations {
		text := t.text
		err := Validate.RegisterTranslation(TagServerAddress, t.trans,
			func(trans ut.Translator) error {
				return trans.Add(TagServerAddress, text, true)
			},
			func(trans ut.Translator, fe validator.FieldError) string {
				msg, _ := trans.T(TagServerAddress, fe.Field())
				return msg
			},
		)
		if err != nil {
			log.Errorf("register %s translation error: %v", TagServerAddress, err)
		}
	}
}

func serverAddress(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return address.IsValid(field.String())
}

func RegisterValidation(tag string, fn validator.Func) error {
	return Validate.RegisterValidation(tag, fn)
}

func RegisterTranslation(tag string, trans ut.Translator, registerFn validator.RegisterTranslationsFunc, translationFn validator.TranslationFunc) error {
	return Validate.RegisterTranslation(tag, trans, registerFn, translationFn)
}

// Struct validates the given struct using the English translator.
func Struct(target any) error {
	return StructTrans(target, "en")
}

// StructTrans validates the given struct using the validator and translator.
func StructTrans(target any, language string) error {
	err := Validate.Struct(target)
	if err == nil {
		return nil
	}

	var invalidValidationError *validator.InvalidValidationError
	if errors.As(err, &invalidValidationError) {
		return err
	}

	trans := TransEn
	if strings.HasPrefix(strings.ToLower(language), "zh") {
		trans = TransZh
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	sb := strings.Builder{}
	for _, e := range validationErrors {
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.Translate(trans))
	}
	return errors.New(sb.String())
}

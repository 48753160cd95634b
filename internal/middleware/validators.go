package middleware

import (
	"reflect"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	stateCodePattern = regexp.MustCompile(`^[0-9]{2}$`)
	gstinPattern     = regexp.MustCompile(`^[0-9]{2}[A-Z0-9]{13}$`)
	registerOnce     sync.Once
)

// RegisterValidators adds the decimal and GST tags to gin's binding validator:
//
//	dgte0    decimal >= 0
//	dgt0     decimal > 0
//	gstrate  decimal percent within [0, 100]
//	gststate two-digit GST state code
//	gstin    15-character GSTIN
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = registerOn(v)
	})
	return err
}

func registerOn(v *validator.Validate) error {
	// Decimals are validated as float64 so the numeric tags see a scalar.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})

	validators := map[string]validator.Func{
		"dgte0":    decimalCheck(func(f float64) bool { return f >= 0 }),
		"dgt0":     decimalCheck(func(f float64) bool { return f > 0 }),
		"gstrate":  decimalCheck(func(f float64) bool { return f >= 0 && f <= 100 }),
		"gststate": func(fl validator.FieldLevel) bool { return stateCodePattern.MatchString(fl.Field().String()) },
		"gstin":    func(fl validator.FieldLevel) bool { return gstinPattern.MatchString(fl.Field().String()) },
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func decimalValue(field reflect.Value) any {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		return d.InexactFloat64()
	case decimal.NullDecimal:
		if d.Valid {
			return d.Decimal.InexactFloat64()
		}
	}
	return nil
}

func decimalCheck(ok func(float64) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			return ok(fl.Field().Float())
		}
		return false
	}
}

package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate проверяет конфигурацию и возвращает все найденные ошибки сразу.
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config validation: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, fieldError(fe))
		}
	}

	if c.Gateway.Interval.Duration <= 0 {
		errs = append(errs, errors.New("Config.Gateway.Interval: must be positive"))
	}
	if c.Gateway.Pacing.Duration < 0 {
		errs = append(errs, errors.New("Config.Gateway.Pacing: must not be negative"))
	}
	if c.MQTT.KeepAlive.Duration < 0 || c.MQTT.RetryInterval.Duration < 0 {
		errs = append(errs, errors.New("Config.MQTT: keep-alive and retry-interval must not be negative"))
	}
	if !c.MQTT.UsesTLS() && (c.MQTT.CACertFile != "" || c.MQTT.InsecureSkipVerify) {
		errs = append(errs, fmt.Errorf("Config.MQTT: TLS options set for plain transport %q", c.MQTT.ResolveTransport()))
	}

	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s: is required", fe.Namespace())
	case "excluded_without":
		return fmt.Errorf("%s: set without %s", fe.Namespace(), fe.Param())
	case "hostname_rfc1123|ip":
		return fmt.Errorf("%s: %q is not a valid hostname or IP address", fe.Namespace(), fe.Value())
	default:
		if fe.Param() != "" {
			return fmt.Errorf("%s: failed %s=%s (value %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%s: failed %s (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
}

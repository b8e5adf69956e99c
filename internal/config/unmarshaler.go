package config

import (
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/hyperfind/pkg/config"
)

// CustomDecoderConfig returns the mapstructure settings used to decode
// koanf's merged map into config.Config. Result is set by the caller.
func CustomDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			numberToDurationHookFunc(),
			// config.Duration implements encoding.TextUnmarshaler.
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		TagName:          "koanf",
	}
}

func unmarshal(k *koanf.Koanf, cfg *config.Config) error {
	dc := CustomDecoderConfig()
	dc.Result = cfg

	return k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: dc,
	})
}

// numberToDurationHookFunc decodes bare TOML numbers into config.Duration
// as nanoseconds, matching time.Duration.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func numberToDurationHookFunc() mapstructure.DecodeHookFunc {
	durationType := reflect.TypeFor[config.Duration]()

	return func(_ reflect.Type, t reflect.Type, data any) (any, error) {
		if t != durationType {
			return data, nil
		}

		switch v := data.(type) {
		case int:
			return config.Duration(time.Duration(v)), nil
		case int64:
			return config.Duration(time.Duration(v)), nil
		case float64:
			return config.Duration(time.Duration(v)), nil
		default:
			return data, nil
		}
	}
}

package resource

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/viper"

	"weather-api/pkg/log"
)

var envPattern = regexp.MustCompile(`^\$\{([^:}]+)(?::([^}]*))?}$`)

// Properties is a read-only view over application properties loaded from YAML,
// with ${ENV_NAME:default} placeholders resolved at load time.
type Properties struct {
	v *viper.Viper
}

// Load reads properties from filepath. When filepath is empty the fallback
// document is used instead.
func Load(filepath string, fallback []byte) (*Properties, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if filepath != "" {
		v.SetConfigFile(filepath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("fail to read properties %s: %w", filepath, err)
		}
	} else {
		if err := v.ReadConfig(bytes.NewReader(fallback)); err != nil {
			return nil, fmt.Errorf("fail to read embedded properties: %w", err)
		}
	}

	resolved := make(map[string]any)
	parsePropertiesMap("", v.AllSettings(), resolved)
	for key, value := range resolved {
		v.Set(key, value)
	}

	return &Properties{v: v}, nil
}

// parsePropertiesMap reads recursively the YAML document into flat dotted keys
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result[fullKey] = v
		case []any:
			result[fullKey] = v
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		case nil:
			result[fullKey] = ""
		default:
			log.Warnf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariable replaces a ${ENV_NAME:default} value with the environment
// value, falling back to the default. Plain values are returned unchanged.
func resolveEnvVariable(value string) string {
	matches := envPattern.FindStringSubmatch(value)
	if matches == nil {
		return value
	}

	if envValue, exists := os.LookupEnv(matches[1]); exists {
		return envValue
	}
	return matches[2]
}

func (p *Properties) GetString(key string) string {
	return p.v.GetString(key)
}

func (p *Properties) GetBool(key string) bool {
	return p.v.GetBool(key)
}

func (p *Properties) GetInt(key string) int {
	return p.v.GetInt(key)
}

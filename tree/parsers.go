package tree

import (
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
)

// Parser turns the raw bytes of one configuration file into a nested
// key/value map. The koanf parser family satisfies this interface and
// supplies the builtin formats; register additional extensions with
// WithParser.
type Parser interface {
	Unmarshal(b []byte) (map[string]any, error)
}

func builtinParsers() map[string]Parser {
	return map[string]Parser{
		".json": json.Parser(),
		".yaml": yaml.Parser(),
		".yml":  yaml.Parser(),
		".toml": toml.Parser(),
		".env":  dotenv.Parser(),
	}
}

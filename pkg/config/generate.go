package config

import (
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/karussell/bach/pkg/errors"
)

const generatedHeader = `# bach project configuration.
# Values not set here fall back to built-in defaults; BACH_* environment
# variables override both.

`

// Generate renders a starter project configuration seeded with the
// current defaults, ready to be written as .bach.toml.
func Generate() ([]byte, error) {
	cfg, err := Load(".")
	if err != nil {
		return nil, err
	}

	body, err := gotoml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return append([]byte(generatedHeader), body...), nil
}

package source

import (
	"github.com/joho/godotenv"

	"github.com/kbukum/dependkit/errors"
)

// Dotenv reads keys from one or more .env files without touching the
// process environment.
type Dotenv struct {
	files  []string
	values map[string]string
}

// NewDotenv parses the given .env files. Later files win on key conflicts.
func NewDotenv(files ...string) (*Dotenv, error) {
	values := make(map[string]string)
	for _, f := range files {
		parsed, err := godotenv.Read(f)
		if err != nil {
			return nil, errors.Source("dotenv", f, err)
		}
		for k, v := range parsed {
			values[k] = v
		}
	}
	return &Dotenv{files: files, values: values}, nil
}

// Name identifies the source.
func (*Dotenv) Name() string { return "dotenv" }

// Read looks the key up in the parsed files.
func (d *Dotenv) Read(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

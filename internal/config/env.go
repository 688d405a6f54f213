package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadDotEnv seeds the process environment from the given files (".env" when
// none are passed). Variables already set in the environment win. A missing
// file is not an error.
func LoadDotEnv(files ...string) (bool, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

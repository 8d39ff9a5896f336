package config

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// Encode writes app as TOML in the layout Load reads back.
func Encode(w io.Writer, app App) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(app); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

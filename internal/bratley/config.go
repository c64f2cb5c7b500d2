package bratley

import "fmt"

type Config struct {
	// MaxNodes ограничивает число посещённых узлов дерева поиска; 0 — без ограничения.
	MaxNodes int
}

func DefaultConfig() Config {
	return Config{MaxNodes: 0}
}

func (c Config) Validate() error {
	if c.MaxNodes < 0 {
		return fmt.Errorf(
			"лимит узлов должен быть >= 0 (получено %d)",
			c.MaxNodes,
		)
	}
	return nil
}

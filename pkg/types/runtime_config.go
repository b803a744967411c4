package types

import (
	"fmt"
	"strings"
)

// Runtime configuration keys recognized by the container stack.
const (
	// EnvKeyAPIURL is the external service endpoint consumed by the
	// monitoring client inside the stack.
	EnvKeyAPIURL = "API_URL"

	// EnvKeyRconPort is the remote console port of the game server.
	EnvKeyRconPort = "rcon_port"
)

// RuntimeConfig is the flat key/value set materialized as the env file
// the container stack reads at start.
type RuntimeConfig struct {
	APIURL   string
	RconPort string
}

// Validate reports every empty value at once.
func (c RuntimeConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.APIURL) == "" {
		missing = append(missing, EnvKeyAPIURL)
	}
	if strings.TrimSpace(c.RconPort) == "" {
		missing = append(missing, EnvKeyRconPort)
	}
	if len(missing) > 0 {
		return fmt.Errorf("runtime config: missing values for %s", strings.Join(missing, ", "))
	}
	return nil
}

// Pairs returns the recognized keys and their values in a stable,
// write-ready order.
func (c RuntimeConfig) Pairs() [][2]string {
	return [][2]string{
		{EnvKeyAPIURL, c.APIURL},
		{EnvKeyRconPort, c.RconPort},
	}
}

package config

import (
	"fmt"
	"slices"
	"strings"
)

// NonEmpty checks several required keys at once and names every missing one,
// in sorted order.
func NonEmpty(values map[string]string) error {
	var missing []string
	for name, v := range values {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("missing required env %s", strings.Join(missing, ", "))
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// dateFlag is an optional YYYY-MM-DD flag value.
type dateFlag struct {
	value *time.Time
}

var _ pflag.Value = (*dateFlag)(nil)

func (d *dateFlag) String() string {
	if d.value == nil {
		return ""
	}
	return d.value.Format(time.DateOnly)
}

func (d *dateFlag) Set(s string) error {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("expected a YYYY-MM-DD date, got %q", s)
	}
	d.value = &t
	return nil
}

func (d *dateFlag) Type() string { return "date" }

// optionalString returns a pointer to the flag value when it was set.
func optionalString(flags *pflag.FlagSet, name, value string) *string {
	if !flags.Changed(name) {
		return nil
	}
	return &value
}

// Package util provides small spf13/cobra/viper helpers shared by the denoiser's command.
package util

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// MustBindPFlag binds key to flag and panics if the binding fails, which only happens on a
// programmer error (a nil flag, a duplicate binding), never on user input.
func MustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic("failed to bind pflag: " + err.Error())
	}
}

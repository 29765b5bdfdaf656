package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var replacer = strings.NewReplacer(".", "_", "-", "_")

// envAnnotation holds the environment variable a flag is bound to.
const envAnnotation = "env"

type argType interface {
	string | bool | int | time.Duration | []string | map[string]string
}

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	// Default applies when the configuration file left the value unset.
	Default *T
	// Count registers an int as a repeatable counter flag (-vvv).
	Count  bool
	Hidden bool
}

func (b boundEnvVar[T]) envName() string {
	if b.Env != nil {
		return *b.Env
	}
	return strings.ToUpper(replacer.Replace(b.Name))
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

func bindEnvMap[T argType](cmd *cobra.Command, m map[*T]boundEnvVar[T]) {
	flags := cmd.PersistentFlags()
	for v, cfg := range m {
		env := cfg.envName()
		desc := fmt.Sprintf("[%s] %s", env, cfg.Description)
		envValue, envFound := os.LookupEnv(env)
		short := ""
		if cfg.Short != nil {
			short = *cfg.Short
		}

		switch vt := any(v).(type) {
		case *string:
			def := *vt
			if cfg.Default != nil && def == "" {
				def = any(*cfg.Default).(string)
			}
			if envFound {
				def = envValue
			}
			flags.StringVarP(vt, cfg.Name, short, def, desc)
		case *bool:
			def := *vt
			if cfg.Default != nil && !def {
				def = any(*cfg.Default).(bool)
			}
			if envFound {
				if parsed, err := strconv.ParseBool(envValue); err == nil {
					def = parsed
				}
			}
			flags.BoolVarP(vt, cfg.Name, short, def, desc)
		case *int:
			def := *vt
			if cfg.Default != nil && def == 0 {
				def = any(*cfg.Default).(int)
			}
			if envFound {
				if parsed, err := strconv.Atoi(envValue); err == nil {
					def = parsed
				}
			}
			if cfg.Count {
				flags.CountVarP(vt, cfg.Name, short, desc)
				_ = flags.Lookup(cfg.Name).Value.Set(strconv.Itoa(def))
			} else {
				flags.IntVarP(vt, cfg.Name, short, def, desc)
			}
		case *time.Duration:
			def := *vt
			if cfg.Default != nil && def == 0 {
				def = any(*cfg.Default).(time.Duration)
			}
			if envFound {
				if parsed, err := time.ParseDuration(envValue); err == nil {
					def = parsed
				}
			}
			flags.DurationVarP(vt, cfg.Name, short, def, desc)
		case *[]string:
			def := *vt
			if cfg.Default != nil && len(def) == 0 {
				def = any(*cfg.Default).([]string)
			}
			if envFound {
				def = splitList(envValue)
			}
			flags.StringSliceVarP(vt, cfg.Name, short, def, desc)
		case *map[string]string:
			def := *vt
			if envFound {
				def = make(map[string]string)
				for _, kv := range splitList(envValue) {
					if k, val, ok := strings.Cut(kv, "="); ok {
						def[k] = val
					}
				}
			}
			flags.StringToStringVarP(vt, cfg.Name, short, def, desc)
		default:
			log.Panicf("command-args parsing error: unhandled default case for type %T", vt)
		}

		_ = flags.SetAnnotation(cfg.Name, envAnnotation, []string{env})
		_ = viper.BindPFlag(cfg.Name, flags.Lookup(cfg.Name))
		_ = viper.BindEnv(cfg.Name, env)

		if cfg.Hidden {
			_ = flags.MarkHidden(cfg.Name)
		}
	}
}

// flagsSet reports whether any flag with the given prefix was set on the command line or through its environment variable.
func flagsSet(cmd *cobra.Command, prefix string) bool {
	set := false
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if set || !strings.HasPrefix(f.Name, prefix) {
			return
		}
		if f.Changed {
			set = true
			return
		}
		for _, env := range f.Annotations[envAnnotation] {
			if _, found := os.LookupEnv(env); found {
				set = true
			}
		}
	})
	return set
}

func chainCommands(cmd *cobra.Command, args []string, fns ...func(*cobra.Command, []string) error) error {
	for _, fn := range fns {
		if err := fn(cmd, args); err != nil {
			return err
		}
	}
	return nil
}

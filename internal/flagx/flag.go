// Package flagx lets several loaders share os.Args without tripping over each
// other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the flags listed in allowedFlags, together with their
// values. Both "-f value" and "-f=value" forms are recognised; a following
// token that starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// Sources names the optional files a configuration is layered from.
type Sources struct {
	JSONFile string
	EnvFile  string
}

// SourceFlags extracts -c/-config and -e/-env-file from args. Other flags are
// ignored; the last occurrence of a flag wins.
func SourceFlags(args []string) Sources {
	var s Sources

	filtered := FilterArgs(args, []string{"-c", "-config", "-e", "-env-file"})

	fs := flag.NewFlagSet("sources", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&s.JSONFile, "config", "", "Path to JSON config file")
	fs.StringVar(&s.JSONFile, "c", "", "Path to JSON config file (short)")
	fs.StringVar(&s.EnvFile, "env-file", "", "Path to .env file")
	fs.StringVar(&s.EnvFile, "e", "", "Path to .env file (short)")
	_ = fs.Parse(filtered)

	return s
}

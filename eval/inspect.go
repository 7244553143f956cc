package eval

import "fmt"

// Inspect formats a value for display in the REPL. Unlike `print',
// strings are shown quoted so that "1" and 1 can be told apart.
func Inspect(v Value) string {
	switch v := v.(type) {
	case String:
		return fmt.Sprintf("%q", string(v))
	case nil:
		return ""
	}
	return v.String()
}

package markup

import "fmt"

// CloseNameMode selects which characters may form the name of a closing tag.
type CloseNameMode uint8

const (
	// CloseNameStrict accepts letters, digits, '_' and '-'.
	CloseNameStrict CloseNameMode = iota
	// CloseNamePermissive accepts any character that is neither whitespace nor '>'.
	CloseNamePermissive
)

// String returns the configuration spelling of the mode.
func (m CloseNameMode) String() string {
	switch m {
	case CloseNameStrict:
		return "strict"
	case CloseNamePermissive:
		return "permissive"
	default:
		return fmt.Sprintf("CloseNameMode(%d)", uint8(m))
	}
}

// ParseCloseNameMode parses "strict" or "permissive". The empty string is strict.
func ParseCloseNameMode(s string) (CloseNameMode, error) {
	switch s {
	case "", "strict":
		return CloseNameStrict, nil
	case "permissive":
		return CloseNamePermissive, nil
	default:
		return CloseNameStrict, fmt.Errorf("unknown close name mode %q; valid modes: strict, permissive", s)
	}
}

// Options configures a Source. The zero value elides comments and uses strict
// closing names.
type Options struct {
	// EmitComments produces Comment events instead of eliding comments.
	EmitComments bool

	// CloseNames selects the closing-tag name alphabet.
	CloseNames CloseNameMode
}

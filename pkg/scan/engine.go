// Package scan selects a markup scanning engine and accounts for full scans.
//
// Two engines produce the same events: the portable scalar scanner in
// pkg/markup and the vectorized scanner in pkg/markup/fast. The engine is picked
// once per scan from configuration; the default is fixed at build time and is
// the vectorized engine when built with the xml1simd tag.
package scan

import (
	"fmt"
	"strings"

	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/markup/fast"
)

// Engine identifies a markup.Source implementation.
type Engine uint8

const (
	// EngineScalar is the Unicode-aware reference scanner.
	EngineScalar Engine = iota
	// EngineSIMD is the 16-byte token search scanner.
	EngineSIMD
)

// DefaultEngine is the engine used when configuration does not name one.
const DefaultEngine = defaultEngine

// String returns the configuration spelling of the engine.
func (e Engine) String() string {
	switch e {
	case EngineScalar:
		return "scalar"
	case EngineSIMD:
		return "simd"
	default:
		return fmt.Sprintf("Engine(%d)", uint8(e))
	}
}

// Engines lists every engine in a stable order.
func Engines() []Engine {
	return []Engine{EngineScalar, EngineSIMD}
}

// ParseEngine parses an engine name. The empty string selects DefaultEngine.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultEngine, nil
	case "scalar":
		return EngineScalar, nil
	case "simd", "fast":
		return EngineSIMD, nil
	default:
		return DefaultEngine, fmt.Errorf("unknown engine %q; valid engines: scalar, simd", name)
	}
}

// New returns a Source over src for the given engine.
func New(engine Engine, src string, opts markup.Options) markup.Source {
	if engine == EngineSIMD {
		return fast.New(src, opts)
	}
	return markup.NewScanner(src, opts)
}

//go:build !xml1simd

package scan

const defaultEngine = EngineScalar

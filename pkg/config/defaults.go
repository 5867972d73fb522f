package config

import "github.com/Sumatoshi-tech/dtannotate/pkg/dts"

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Output defaults.
const (
	DefaultOutputSuffix = ".annotated"
	DefaultOutputHeader = true
	DefaultOutputVerify = false
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatText
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultOTLPHeaders  = ""
	DefaultMetricsFile  = ""
	DefaultSampleRatio  = 1.0
)

// Rules defaults mirror the compiled-in classifier.
var (
	DefaultSingleHandle     = dts.DefaultSingleHandle
	DefaultFirstHandle      = dts.DefaultFirstHandle
	DefaultListHandle       = dts.DefaultListHandle
	DefaultRawValueSegments = dts.DefaultRawValueSegments
)

// DefaultGPIOSubstring mirrors the compiled-in classifier.
const DefaultGPIOSubstring = dts.DefaultGPIOSubstring

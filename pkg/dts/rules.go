package dts

import (
	"slices"
	"strings"
)

// Rule selects how a property value is re-encoded.
type Rule int

// Property rules.
const (
	// RuleGeneric hex-to-decimal normalizes purely numeric cell lists.
	RuleGeneric Rule = iota
	// RuleSingleHandle resolves a value holding exactly one handle.
	RuleSingleHandle
	// RuleFirstHandle resolves the first cell only.
	RuleFirstHandle
	// RuleListHandle resolves every cell.
	RuleListHandle
	// RuleClockTuple decodes (handle, selector) pairs.
	RuleClockTuple
	// RulePinctrlTriple decodes (bank, pin, function, config) tuples.
	RulePinctrlTriple
	// RulePowerCtrlTriple decodes (handle, pin, polarity) triples.
	RulePowerCtrlTriple
	// RuleInterruptSpec decodes interrupt specifiers.
	RuleInterruptSpec
	// RuleInterruptMap decodes interrupt-map entries.
	RuleInterruptMap
)

var ruleNames = [...]string{
	RuleGeneric:         "generic",
	RuleSingleHandle:    "single-handle",
	RuleFirstHandle:     "first-handle",
	RuleListHandle:      "list-handle",
	RuleClockTuple:      "clock-tuple",
	RulePinctrlTriple:   "pinctrl-triple",
	RulePowerCtrlTriple: "power-ctrl-triple",
	RuleInterruptSpec:   "interrupt-spec",
	RuleInterruptMap:    "interrupt-map",
}

// String returns the rule name used in logs and metrics.
func (r Rule) String() string {
	if r < 0 || int(r) >= len(ruleNames) {
		return "unknown"
	}

	return ruleNames[r]
}

// Rules lists every rule in declaration order.
func Rules() []Rule {
	rules := make([]Rule, len(ruleNames))
	for i := range rules {
		rules[i] = Rule(i)
	}

	return rules
}

// Default property-name sets.
var (
	DefaultSingleHandle = []string{
		"arasan,soc-ctl-syscon", "audio-supply", "assigned-clock-parents", "backlight",
		"bt656-supply", "charge-dev", "connect", "ddr_timing", "devfreq-events", "extcon",
		"gpio1830-supply", "interrupt-parent", "iommus", "logo-memory-region", "memory-region",
		"mmc-pwrseq", "native-mode", "operating-points-v2", "phy-supply", "pmu1830-supply",
		"rockchip,pmu", "sdmmc-supply", "remote-endpoint", "rockchip,cpu", "rockchip,grf",
		"rockchip-serial-irq", "secure-memory-region", "simple-audio-card,mclk-fs", "sound-dai",
		"trip", "vbus-supply", "vcc1-supply", "vcc10-supply", "vcc11-supply", "vcc12-supply",
		"vcc2-supply", "vcc3-supply", "vcc4-supply", "vcc5-supply", "vcc6-supply", "vcc7-supply",
		"vcc8-supply", "vcc9-supply", "vddio-supply", "vin-supply", "vmmc-supply", "vqmmc-supply",
		"vref-supply",
	}

	DefaultFirstHandle = []string{
		"discharge-gpios", "ep-gpios", "gpio", "gpios", "headset_gpio", "hp_ctrl_gpio",
		"int-n-gpios", "io-channels", "linein_det_gpio", "power-domains", "pwms", "reset-gpios",
		"rockchip,gpios", "thermal-sensors", "typec0-enable-gpios", "vbus-5v-gpios", "vsel-gpios",
	}

	DefaultListHandle = []string{
		"nvmem-cells", "phys", "pinctrl-0", "pinctrl-1", "pinctrl-2", "pinctrl-3", "pinctrl-4",
		"pinctrl-5", "pm_qos", "ports", "rockchip,codec",
	}

	DefaultRawValueSegments = []string{"reg"}
)

// DefaultGPIOSubstring marks GPIO-flavored first-handle properties.
const DefaultGPIOSubstring = "gpio"

var specialRules = map[string]Rule{
	"clocks":              RuleClockTuple,
	"dmas":                RuleClockTuple,
	"assigned-clocks":     RuleClockTuple,
	"rockchip,pins":       RulePinctrlTriple,
	"rockchip,power-ctrl": RulePowerCtrlTriple,
	"interrupts":          RuleInterruptSpec,
	"interrupt-map":       RuleInterruptMap,
}

// RuleSetConfig lists the property names of each configurable rule.
// Nil fields fall back to the defaults.
type RuleSetConfig struct {
	SingleHandle     []string
	FirstHandle      []string
	ListHandle       []string
	RawValueSegments []string
	GPIOSubstring    string
}

// RuleSet classifies property names. It is immutable once built.
type RuleSet struct {
	byName        map[string]Rule
	rawSegments   []string
	gpioSubstring string
}

// NewRuleSet builds a classifier. The special encodings always win over
// a configured set containing the same name.
func NewRuleSet(cfg RuleSetConfig) *RuleSet {
	rs := &RuleSet{
		byName:        make(map[string]Rule),
		rawSegments:   orDefault(cfg.RawValueSegments, DefaultRawValueSegments),
		gpioSubstring: cfg.GPIOSubstring,
	}

	if rs.gpioSubstring == "" {
		rs.gpioSubstring = DefaultGPIOSubstring
	}

	rs.add(orDefault(cfg.SingleHandle, DefaultSingleHandle), RuleSingleHandle)
	rs.add(orDefault(cfg.FirstHandle, DefaultFirstHandle), RuleFirstHandle)
	rs.add(orDefault(cfg.ListHandle, DefaultListHandle), RuleListHandle)

	for name, rule := range specialRules {
		rs.byName[name] = rule
	}

	return rs
}

// DefaultRuleSet returns the classifier for the compiled-in sets.
func DefaultRuleSet() *RuleSet {
	return NewRuleSet(RuleSetConfig{})
}

// Classify returns the rule for a property name. Matching is exact and
// case-sensitive; unknown names are [RuleGeneric].
func (rs *RuleSet) Classify(name string) Rule {
	if rule, ok := rs.byName[name]; ok {
		return rule
	}

	return RuleGeneric
}

// KeepsRawValue reports whether a generic property keeps its hex cells.
// The name is split into segments at '-' and ','; one segment must equal a
// raw-value word, so "reg" and "reg-names" match but "regulator-ramp-delay"
// does not.
func (rs *RuleSet) KeepsRawValue(name string) bool {
	for _, segment := range strings.FieldsFunc(name, isNameSeparator) {
		if slices.Contains(rs.rawSegments, segment) {
			return true
		}
	}

	return false
}

func isNameSeparator(r rune) bool {
	return r == '-' || r == ','
}

// IsGPIO reports whether a first-handle property carries pin and flag cells.
func (rs *RuleSet) IsGPIO(name string) bool {
	return strings.Contains(name, rs.gpioSubstring)
}

func (rs *RuleSet) add(names []string, rule Rule) {
	for _, name := range names {
		rs.byName[name] = rule
	}
}

func orDefault(values, defaults []string) []string {
	if values == nil {
		return defaults
	}

	return values
}

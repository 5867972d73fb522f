package dts

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	hexPrefix = "0x"

	gpioBankPrefix = "RK_P"
	gpioBankSize   = 8
	gpioBankCount  = 26

	pinctrlBankPrefix = "RK_GPIO"
	funcGPIO          = "RK_FUNC_GPIO"
	funcAltPrefix     = "RK_FUNC_ALT"
)

var gpioFlags = map[uint64]string{
	0: "GPIO_ACTIVE_HIGH",
	1: "GPIO_ACTIVE_LOW",
	2: "GPIO_OPEN_SOURCE",
	3: "GPIO_OPEN_DRAIN",
}

var gicTypes = map[uint64]string{
	0: "GIC_SPI",
	1: "GIC_PPI",
}

var irqTypes = map[uint64]string{
	0: "IRQ_TYPE_NONE",
	1: "IRQ_TYPE_EDGE_RISING",
	2: "IRQ_TYPE_EDGE_FALLING",
	3: "IRQ_TYPE_EDGE_BOTH",
	4: "IRQ_TYPE_LEVEL_HIGH",
	8: "IRQ_TYPE_LEVEL_LOW",
}

// ToDecimal rewrites a "0x" prefixed token in decimal. Any other token,
// including one that fails to parse, is returned unchanged.
func ToDecimal(token string) string {
	digits, ok := strings.CutPrefix(strings.ToLower(token), hexPrefix)
	if !ok {
		return token
	}

	n, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return token
	}

	return strconv.FormatUint(n, 10)
}

// GpioName encodes a pin number as bank letter and pin, e.g. 11 -> RK_PB3.
func GpioName(token string) string {
	n, ok := parseCell(token)
	if !ok || n/gpioBankSize >= gpioBankCount {
		return token
	}

	return fmt.Sprintf("%s%c%d", gpioBankPrefix, rune('A'+n/gpioBankSize), n%gpioBankSize)
}

// GpioFlag encodes a GPIO polarity/mode cell.
func GpioFlag(token string) string {
	return lookupConstant(gpioFlags, token, token)
}

// PinctrlBank encodes the bank cell of a pin-control tuple.
func PinctrlBank(token string) string {
	n, ok := parseCell(token)
	if !ok {
		return token
	}

	return pinctrlBankPrefix + strconv.FormatUint(n, 10)
}

// PinctrlFunc encodes the mux function cell of a pin-control tuple.
func PinctrlFunc(token string) string {
	n, ok := parseCell(token)
	if !ok {
		return token
	}

	if n == 0 {
		return funcGPIO
	}

	return funcAltPrefix + strconv.FormatUint(n, 10)
}

// GicType encodes the controller-type cell of an interrupt specifier.
func GicType(token string) string {
	return lookupConstant(gicTypes, token, ToDecimal(token))
}

// IrqType encodes the trigger-type cell of an interrupt specifier.
func IrqType(token string) string {
	return lookupConstant(irqTypes, token, ToDecimal(token))
}

func lookupConstant(table map[uint64]string, token, fallback string) string {
	n, ok := parseCell(token)
	if !ok {
		return fallback
	}

	if name, found := table[n]; found {
		return name
	}

	return fallback
}

// parseCell parses a hex ("0x") or decimal cell.
func parseCell(token string) (uint64, bool) {
	n, err := strconv.ParseUint(token, 0, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

package serializers

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var decimalPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// Decimal is a money amount kept as the text the client sent, so precision
// checks see every digit. It is read from a JSON number or a numeric string
// and written as a two-place string ("3.50").
type Decimal string

// DecimalFromCents formats an amount stored in cents.
func DecimalFromCents(cents int64) Decimal {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return Decimal(fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100))
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(d))), nil
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	if !decimalPattern.MatchString(raw) {
		return fmt.Errorf("a valid number is required, got %s", data)
	}
	*d = Decimal(raw)
	return nil
}

func (d Decimal) split() (negative bool, whole, frac string) {
	s := string(d)
	if strings.HasPrefix(s, "-") {
		negative, s = true, s[1:]
	}
	whole, frac, _ = strings.Cut(s, ".")
	return negative, whole, frac
}

// Negative reports a value below zero. "-0.00" is not negative.
func (d Decimal) Negative() bool {
	negative, whole, frac := d.split()
	return negative && strings.Trim(whole+frac, "0") != ""
}

// Places is the number of digits after the decimal point, trailing zeros included.
func (d Decimal) Places() int {
	_, _, frac := d.split()
	return len(frac)
}

// Digits is the total number of significant digits, ignoring leading zeros.
func (d Decimal) Digits() int {
	_, whole, frac := d.split()
	return len(strings.TrimLeft(whole, "0")) + len(frac)
}

// WholeDigits is the number of significant digits before the decimal point.
func (d Decimal) WholeDigits() int {
	_, whole, _ := d.split()
	return len(strings.TrimLeft(whole, "0"))
}

// Cents converts a value that has passed validation (at most two places,
// small enough for int64) into cents.
func (d Decimal) Cents() int64 {
	negative, whole, frac := d.split()
	frac = (frac + "00")[:2]
	cents, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -cents
	}
	return cents
}

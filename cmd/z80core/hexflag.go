package main

import (
	"fmt"
	"strconv"
	"strings"
)

// hexValue is a pflag.Value accepting 0x8000, 8000h, $8000 or decimal.
type hexValue struct {
	v   *int
	max int
}

func newHexValue(p *int, def, limit int) *hexValue {
	*p = def
	return &hexValue{v: p, max: limit}
}

func (h *hexValue) String() string {
	return fmt.Sprintf("0x%04X", *h.v)
}

func (h *hexValue) Set(s string) error {
	v, err := parseNumber(s)
	if err != nil {
		return err
	}
	if v < 0 || v > h.max {
		return fmt.Errorf("%s out of range 0..%#x", s, h.max)
	}
	*h.v = v
	return nil
}

func (h *hexValue) Type() string {
	return "addr"
}

// parseNumber reads hex in 0x, $ or h-suffix form, or decimal.
func parseNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}

	base := 10
	switch upper := strings.ToUpper(s); {
	case strings.HasPrefix(upper, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "$"):
		s, base = s[1:], 16
	case strings.HasSuffix(upper, "H"):
		s, base = s[:len(s)-1], 16
	}

	v, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", s)
	}
	return int(v), nil
}

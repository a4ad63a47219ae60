package helper

import "strings"

// TrimPtr: trim; nil / kosong → nil.
func TrimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

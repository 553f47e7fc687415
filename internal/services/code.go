package services

import (
	"crypto/rand"
	"fmt"
	"io"

	"clubportal/internal/domain"
)

// codeRejectThreshold is the largest multiple of the alphabet size that fits in a byte;
// bytes at or above it are discarded so every symbol is equally likely.
const codeRejectThreshold = 256 - 256%len(domain.InvitationAlphabet)

type randomCodeGenerator struct {
	src io.Reader
}

// NewCodeGenerator returns a CodeGenerator drawing uniformly from [A-Z0-9] using crypto/rand.
func NewCodeGenerator() domain.CodeGenerator {
	return &randomCodeGenerator{src: rand.Reader}
}

func (g *randomCodeGenerator) Generate() (string, error) {
	out := make([]byte, 0, domain.InvitationCodeLen)
	buf := make([]byte, domain.InvitationCodeLen*2)
	for len(out) < domain.InvitationCodeLen {
		if _, err := io.ReadFull(g.src, buf); err != nil {
			return "", fmt.Errorf("read random source: %w", err)
		}
		for _, b := range buf {
			if int(b) >= codeRejectThreshold {
				continue
			}
			out = append(out, domain.InvitationAlphabet[int(b)%len(domain.InvitationAlphabet)])
			if len(out) == domain.InvitationCodeLen {
				break
			}
		}
	}
	return string(out), nil
}

// isInvitationCode reports whether s has the shape of a generated code.
func isInvitationCode(s string) bool {
	if len(s) != domain.InvitationCodeLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

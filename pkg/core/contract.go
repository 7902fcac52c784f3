package core

import (
	"fmt"
	"strings"
)

// ContractType selects which endpoint family a REST client talks to.
type ContractType string

// Contract types supported by the REST client. The zero value exposes only the
// account asset endpoints.
const (
	ContractNone    ContractType = ""
	ContractLinear  ContractType = "linear"
	ContractInverse ContractType = "inverse"
	ContractFutures ContractType = "futures"
	ContractSpot    ContractType = "spot"
)

// String returns the contract type name, "none" for the zero value.
func (c ContractType) String() string {
	if c == ContractNone {
		return "none"
	}
	return string(c)
}

// IsDerivatives reports whether the contract type shares the derivatives endpoints.
func (c ContractType) IsDerivatives() bool {
	return c == ContractLinear || c == ContractInverse || c == ContractFutures
}

// ParseContractType parses a case-insensitive contract type name.
func ParseContractType(s string) (ContractType, error) {
	switch ct := ContractType(strings.ToLower(strings.TrimSpace(s))); ct {
	case ContractNone, ContractLinear, ContractInverse, ContractFutures, ContractSpot:
		return ct, nil
	case "none":
		return ContractNone, nil
	default:
		return ContractNone, fmt.Errorf("unknown contract type %q", s)
	}
}

package types

import (
	"fmt"
	"strings"
)

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Essential
	BC_Reflective
)

var BCNameMap = map[string]BCFLAG{
	"essential":      BC_Essential,
	"essentialghost": BC_Essential,
	"dirichlet":      BC_Essential,
	"reflective":     BC_Reflective,
	"wall":           BC_Reflective,
	"slip":           BC_Reflective,
}

func (bf BCFLAG) String() string {
	switch bf {
	case BC_Essential:
		return "EssentialGhost"
	case BC_Reflective:
		return "Reflective"
	default:
		return "None"
	}
}

// NewBCFLAG resolves a boundary type name from an input file, ignoring case.
func NewBCFLAG(label string) (bf BCFLAG, err error) {
	var ok bool
	if bf, ok = BCNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = NewConfigurationError("unknown boundary condition type %q", label)
		return
	}
	return
}

// PhasePairing identifies the dominant phases on the two sides of a face.
type PhasePairing uint8

const (
	GasGas PhasePairing = iota
	GasLiquid
	LiquidGas
	LiquidLiquid
)

func NewPhasePairing(leftGas, rightGas bool) PhasePairing {
	switch {
	case leftGas && rightGas:
		return GasGas
	case leftGas:
		return GasLiquid
	case rightGas:
		return LiquidGas
	default:
		return LiquidLiquid
	}
}

func (pp PhasePairing) String() string {
	switch pp {
	case GasGas:
		return "GasGas"
	case GasLiquid:
		return "GasLiquid"
	case LiquidGas:
		return "LiquidGas"
	case LiquidLiquid:
		return "LiquidLiquid"
	}
	return fmt.Sprintf("PhasePairing(%d)", uint8(pp))
}

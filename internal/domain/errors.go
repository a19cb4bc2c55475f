package domain

import "errors"

var (
	// ErrPrecondition indica datos de entrada malformados (precio negativo,
	// probabilidad fuera de [0,1], presupuesto negativo). Nunca se corrigen en silencio.
	ErrPrecondition = errors.New("precondition violation")

	// ErrInvalidConfig indica parámetros de sizing fuera de rango.
	ErrInvalidConfig = errors.New("invalid allocation config")

	// ErrBudgetInvariant indica que un resultado gastaría más que el presupuesto.
	ErrBudgetInvariant = errors.New("allocation exceeds budget")
)

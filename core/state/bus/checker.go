package bus

import (
	"math/big"
)

type Checker interface {
	AddFunds(*big.Int)
	AddVolume(*big.Int)
}

package oracle

import (
	"math/big"
	"testing"

	"github.com/gittensor/bounty-go-node/core/types"
)

func TestOracleWeights(t *testing.T) {
	t.Parallel()
	o := NewOracle()

	addr1, addr2 := types.Address{1}, types.Address{2}

	if o.WeightOf(addr1).Sign() != 0 {
		t.Fatal("unknown address must weigh zero")
	}
	if o.TotalWeight().Sign() != 0 {
		t.Fatal("empty oracle must have zero total")
	}

	o.SetWeight(addr1, big.NewInt(60))
	o.SetWeight(addr2, big.NewInt(40))

	if o.WeightOf(addr1).Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("wrong weight %s", o.WeightOf(addr1).String())
	}
	if o.TotalWeight().Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("wrong total %s", o.TotalWeight().String())
	}
}

func TestOracleReweighAndRemove(t *testing.T) {
	t.Parallel()
	o := NewOracle()

	addr := types.Address{1}
	o.SetWeight(addr, big.NewInt(60))
	o.SetWeight(addr, big.NewInt(25))

	if o.WeightOf(addr).Cmp(big.NewInt(25)) != 0 {
		t.Fatal("reweigh must replace, not add")
	}
	if o.TotalWeight().Cmp(big.NewInt(25)) != 0 {
		t.Fatalf("total out of sync: %s", o.TotalWeight().String())
	}

	o.SetWeight(addr, big.NewInt(0))
	if o.WeightOf(addr).Sign() != 0 || o.TotalWeight().Sign() != 0 {
		t.Fatal("zero weight must drop the address")
	}
}

func TestOracleReturnsCopies(t *testing.T) {
	t.Parallel()
	o := NewOracle()

	addr := types.Address{1}
	o.SetWeight(addr, big.NewInt(10))

	o.WeightOf(addr).SetInt64(999)
	o.TotalWeight().SetInt64(999)

	if o.WeightOf(addr).Cmp(big.NewInt(10)) != 0 {
		t.Fatal("caller must not be able to mutate the stored weight")
	}
	if o.TotalWeight().Cmp(big.NewInt(10)) != 0 {
		t.Fatal("caller must not be able to mutate the total")
	}
}

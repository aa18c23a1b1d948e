package bindings

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABI returns the parsed contract ABI
// This is a helper method that works alongside the generated ABI bindings
func (epicNFT *EpicNFT) ABI() abi.ABI {
	return epicNFT.abi
}

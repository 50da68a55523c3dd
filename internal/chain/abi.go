package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// marketplaceABIJSON covers the marketplace contract surface this service
// touches: the write entry points, the gating reads, and ownerOf
const marketplaceABIJSON = `[
	{"inputs":[{"name":"uri","type":"string"}],"name":"mint","outputs":[{"name":"","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"name":"approve","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"nftContract","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"price","type":"uint256"}],"name":"listItem","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"nftContract","type":"address"},{"name":"tokenId","type":"uint256"}],"name":"buyItem","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"minter","type":"address"}],"name":"freeMintCount","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"mintPrice","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

// TransferEventSignature is the ERC721 Transfer event topic.
// Shared by ERC20 (3 topics) and ERC721 (4 topics), callers must check the
// topic count before decoding.
var TransferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

func mustMarketplaceABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(marketplaceABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}

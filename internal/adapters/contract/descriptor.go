package contract

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/bindings"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// Descriptor binds the configured mint, count and event names to an ABI
type Descriptor struct {
	address     common.Address
	abi         abi.ABI
	mintMethod  string
	countMethod string
	mintEvent   abi.Event
}

// artifact is the subset of a Foundry or Hardhat build artifact we read
type artifact struct {
	ABI json.RawMessage `json:"abi"`
}

// NewDescriptor builds a descriptor from configuration. Without an artifact
// path the embedded EpicNFT ABI is used.
func NewDescriptor(cfg *config.RuntimeConfig) (*Descriptor, error) {
	parsed, err := loadABI(cfg.ProjectRoot, cfg.Contract.ABIPath)
	if err != nil {
		return nil, err
	}
	return newDescriptor(cfg.Contract, parsed)
}

func newDescriptor(cc config.ContractConfig, parsed abi.ABI) (*Descriptor, error) {
	mintMethod := orDefault(cc.MintMethod, config.DefaultMintMethod)
	countMethod := orDefault(cc.CountMethod, config.DefaultCountMethod)
	eventName := orDefault(cc.MintEvent, config.DefaultMintEvent)

	if _, ok := parsed.Methods[mintMethod]; !ok {
		return nil, fmt.Errorf("mint method %q not found in contract ABI", mintMethod)
	}
	count, ok := parsed.Methods[countMethod]
	if !ok {
		return nil, fmt.Errorf("count method %q not found in contract ABI", countMethod)
	}
	if len(count.Outputs) == 0 {
		return nil, fmt.Errorf("count method %q has no return value", countMethod)
	}
	event, ok := parsed.Events[eventName]
	if !ok {
		return nil, fmt.Errorf("mint event %q not found in contract ABI", eventName)
	}

	return &Descriptor{
		address:     cc.Address,
		abi:         parsed,
		mintMethod:  mintMethod,
		countMethod: countMethod,
		mintEvent:   event,
	}, nil
}

func loadABI(projectRoot, path string) (abi.ABI, error) {
	if path == "" {
		return bindings.NewEpicNFT().ABI(), nil
	}
	if !filepath.IsAbs(path) && projectRoot != "" {
		path = filepath.Join(projectRoot, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to read contract artifact: %w", err)
	}

	// Artifacts wrap the ABI under "abi"; a bare ABI array is accepted too
	raw := data
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var art artifact
		if err := json.Unmarshal(data, &art); err != nil {
			return abi.ABI{}, fmt.Errorf("failed to parse contract artifact %s: %w", path, err)
		}
		if len(art.ABI) == 0 {
			return abi.ABI{}, fmt.Errorf("contract artifact %s has no abi field", path)
		}
		raw = art.ABI
	}

	parsed, err := abi.JSON(strings.NewReader(string(raw)))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI from %s: %w", path, err)
	}
	return parsed, nil
}

func (d *Descriptor) Address() common.Address {
	return d.address
}

func (d *Descriptor) PackMint() ([]byte, error) {
	return d.abi.Pack(d.mintMethod)
}

func (d *Descriptor) PackCount() ([]byte, error) {
	return d.abi.Pack(d.countMethod)
}

func (d *Descriptor) UnpackCount(data []byte) (*big.Int, error) {
	out, err := d.abi.Unpack(d.countMethod, data)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", d.countMethod)
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, expected uint256", d.countMethod, out[0])
	}
	return count, nil
}

func (d *Descriptor) MintEventID() common.Hash {
	return d.mintEvent.ID
}

// UnpackMintEvent decodes the mint event. The first uint256 argument is the
// token id and the first string argument is the metadata payload.
func (d *Descriptor) UnpackMintEvent(log *types.Log) (*domain.MintEvent, error) {
	if log == nil || len(log.Topics) == 0 {
		return nil, fmt.Errorf("log has no topics")
	}
	if log.Topics[0] != d.mintEvent.ID {
		return nil, fmt.Errorf("event signature mismatch: got %s, want %s", log.Topics[0].Hex(), d.mintEvent.ID.Hex())
	}

	values := make(map[string]any)
	if len(log.Data) > 0 {
		if err := d.mintEvent.Inputs.NonIndexed().UnpackIntoMap(values, log.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack %s: %w", d.mintEvent.Name, err)
		}
	}
	var indexed abi.Arguments
	for _, arg := range d.mintEvent.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if err := abi.ParseTopicsIntoMap(values, indexed, log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse %s topics: %w", d.mintEvent.Name, err)
	}

	event := &domain.MintEvent{
		TxHash:   log.TxHash,
		Block:    log.BlockNumber,
		LogIndex: log.Index,
	}
	var havePayload bool
	for _, arg := range d.mintEvent.Inputs {
		switch v := values[arg.Name].(type) {
		case *big.Int:
			if event.TokenID == nil {
				event.TokenID = v
			}
		case string:
			if !havePayload {
				event.Payload = v
				havePayload = true
			}
		}
	}
	if event.TokenID == nil {
		return nil, fmt.Errorf("%s carries no uint256 token id", d.mintEvent.Name)
	}
	return event, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var _ usecase.MintContract = (*Descriptor)(nil)

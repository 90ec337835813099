package pkguid

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// uploadEpoch is 2026-01-01T00:00:00Z in milliseconds.
const uploadEpoch = 1767225600000

var setEpoch sync.Once

// Snowflake hands out time-ordered int64 ids from one node.
type Snowflake struct {
	node *snowflake.Node
}

func generateRandomNodeID() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<snowflake.NodeBits))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

// NewSnowflake picks a random node so processes sharing a bucket rarely collide.
func NewSnowflake() (*Snowflake, error) {
	nodeID, err := generateRandomNodeID()
	if err != nil {
		return nil, err
	}

	setEpoch.Do(func() { snowflake.Epoch = uploadEpoch })

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

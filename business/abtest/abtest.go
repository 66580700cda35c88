package abtest

import (
	"crypto/md5"
	"math/big"
	"math/rand"

	"appMatch/domain"
)

// Policy is the immutable experiment configuration: the share of
// traffic sent to arm v1 and whether assignments stick to an
// identity key.
type Policy struct {
	V1Weight float64
	Sticky   bool
}

func DefaultPolicy() Policy {
	return Policy{V1Weight: 0.5, Sticky: true}
}

// Controller assigns requests to one of the two experiment arms.
type Controller struct {
	policy Policy
}

func NewController(policy Policy) *Controller {
	return &Controller{policy: policy}
}

// PickArm returns "v1" or "v2" for the given identity. With a sticky
// policy the choice is a pure function of (partnerID, appID): the key
// is hashed into [0,1) with a process-independent digest, so the same
// identity lands on the same arm across repeated calls and restarts.
// Both identifiers may be empty; the key then degenerates to ":" and
// still yields a fixed arm.
func (c *Controller) PickArm(partnerID, appID string) string {
	if !c.policy.Sticky {
		if rand.Float64() < c.policy.V1Weight {
			return domain.ArmV1
		}
		return domain.ArmV2
	}

	u := hashToUnit(partnerID + ":" + appID)
	if u < c.policy.V1Weight {
		return domain.ArmV1
	}
	return domain.ArmV2
}

var unitDenominator = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 128))

// hashToUnit maps a key into [0,1) by reading the full 128-bit MD5
// digest as an unsigned integer and dividing by 2^128. Weight 0 can
// never select v1 because u >= 0 is compared with strict <.
func hashToUnit(key string) float64 {
	sum := md5.Sum([]byte(key))
	n := new(big.Int).SetBytes(sum[:])
	u, _ := new(big.Float).Quo(new(big.Float).SetInt(n), unitDenominator).Float64()
	return u
}

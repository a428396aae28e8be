// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "fmt"

// Revision identifies a protocol revision (hard fork).
type Revision uint8

// Known revisions, in activation order.
const (
	Frontier Revision = iota
	Homestead
	TangerineWhistle
	SpuriousDragon
	Byzantium
	Constantinople
	Petersburg
	Istanbul
	Berlin
	London
	Paris
	Shanghai
	Cancun
	Prague

	LatestRevision = Prague
)

var revisionNames = [...]string{
	"frontier",
	"homestead",
	"tangerine_whistle",
	"spurious_dragon",
	"byzantium",
	"constantinople",
	"petersburg",
	"istanbul",
	"berlin",
	"london",
	"paris",
	"shanghai",
	"cancun",
	"prague",
}

func (r Revision) String() string {
	if int(r) < len(revisionNames) {
		return revisionNames[r]
	}
	return fmt.Sprintf("revision(%d)", uint8(r))
}

// ParseRevision parses name of revision.
func ParseRevision(s string) (Revision, error) {
	for i, name := range revisionNames {
		if name == s {
			return Revision(i), nil
		}
	}
	return 0, fmt.Errorf("unknown revision %q", s)
}

// Rules describes revision dependent behavior.
type Rules struct {
	Revision Revision

	// SpuriousDragon+: empty touched accounts are deleted, contracts start at nonce 1,
	// deployed code is limited to MaxCodeSize.
	EIP161 bool
	EIP170 bool
	// Homestead+: failed code deposit is an error rather than an empty contract.
	EIP2 bool
	// London+: deployed code can not start with 0xef.
	EIP3541 bool
	// Cancun+: selfdestruct only removes accounts created in the same transaction.
	EIP6780 bool
	// Prague+: CALL may target a delegated code address.
	EIP7702 bool

	StartingNonce   uint64
	CodeDepositCost uint64
	MaxCodeSize     int
}

var rulesTable [LatestRevision + 1]Rules

func init() {
	for i := range rulesTable {
		r := Revision(i)
		rulesTable[i] = Rules{
			Revision:        r,
			EIP2:            r >= Homestead,
			EIP161:          r >= SpuriousDragon,
			EIP170:          r >= SpuriousDragon,
			EIP3541:         r >= London,
			EIP6780:         r >= Cancun,
			EIP7702:         r >= Prague,
			CodeDepositCost: CreateDataGas,
			MaxCodeSize:     MaxCodeSize,
		}
		if r >= SpuriousDragon {
			rulesTable[i].StartingNonce = 1
		}
	}
}

// RulesOf returns rules of the given revision.
func RulesOf(r Revision) *Rules {
	if r > LatestRevision {
		panic(fmt.Sprintf("unsupported revision %d", r))
	}
	return &rulesTable[r]
}
